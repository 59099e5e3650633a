package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"rentshare-backend/internal/logger"
)

type PushSender interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type FirebasePusher struct {
	client messagingClient
}

func NewFirebasePusher(ctx context.Context, credentialsFile string) (*FirebasePusher, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &FirebasePusher{client: client}, nil
}

func (p *FirebasePusher) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	}
	logger.ExternalServiceCall("firebase", "send", "title", title)
	id, err := p.client.Send(ctx, msg)
	logger.ExternalServiceResult("firebase", "send", err, "messageID", id)
	if err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}
