package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/metrics"
	"rentshare-backend/internal/notify"
	"rentshare-backend/internal/repository"
)

const maxMessageLength = 2000

type messageService struct {
	messages repository.MessageRepository
	profiles repository.ProfileRepository
	notifier Notifier
}

func NewMessageService(messages repository.MessageRepository, profiles repository.ProfileRepository, notifier Notifier) MessageService {
	return &messageService{messages: messages, profiles: profiles, notifier: notifier}
}

func (s *messageService) Send(ctx context.Context, senderID, recipientID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Validationf("message text is required")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, domain.Validationf("message is longer than %d characters", maxMessageLength)
	}
	if senderID == recipientID {
		return nil, domain.Validationf("you cannot message yourself")
	}
	if _, err := s.profiles.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	thread, err := s.messages.GetOrCreateThread(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	msg := &domain.Message{ThreadID: thread.ID, SenderID: senderID, Text: text}
	if err := s.messages.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	metrics.IncMessageSent()

	preview := text
	if utf8.RuneCountInString(preview) > 80 {
		preview = string([]rune(preview)[:80]) + "..."
	}
	notifyUser(ctx, s.notifier, notify.Notice{
		UserID:     recipientID,
		Kind:       domain.NotificationNewMessage,
		Title:      "New message",
		Message:    preview,
		Attributes: map[string]string{"thread_id": thread.ID, "sender_id": senderID},
	})
	return msg, nil
}

func (s *messageService) Threads(ctx context.Context, userID string) ([]domain.ThreadSummary, error) {
	return s.messages.ListThreads(ctx, userID)
}

// Chat returns an empty conversation when the two users have not talked yet.
func (s *messageService) Chat(ctx context.Context, userID, otherID string) ([]domain.Message, error) {
	thread, err := s.messages.FindThread(ctx, userID, otherID)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, thread.ID)
}

func (s *messageService) MarkRead(ctx context.Context, userID, otherID string) (int64, error) {
	thread, err := s.messages.FindThread(ctx, userID, otherID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return s.messages.MarkRead(ctx, thread.ID, userID)
}
