package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentshare-backend/internal/logger"
)

type EmailSender interface {
	SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error
}

type SendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
	send      func(m *mail.SGMailV3) (int, string, error)
}

// NewSendGridSender logs instead of sending when apiKey is empty.
func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	s := &SendGridSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
	s.send = func(m *mail.SGMailV3) (int, string, error) {
		response, err := sendgrid.NewSendClient(s.apiKey).Send(m)
		if err != nil {
			return 0, "", err
		}
		return response.StatusCode, response.Body, nil
	}
	return s
}

func (s *SendGridSender) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	if s.apiKey == "" {
		logger.Info("SendGrid disabled, email not sent", "to", to, "subject", subject)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	status, body, err := s.send(message)
	if err == nil && status >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", status, body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "status", status)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
