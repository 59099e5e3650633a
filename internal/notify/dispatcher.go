// Package notify delivers user-facing notices: the in-app feed entry is
// stored first, then push and email are attempted on a best-effort basis.
package notify

import (
	"context"
	"fmt"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

// Notice is one event to tell a user about. Kind is one of the domain
// Notification* constants.
type Notice struct {
	UserID     string
	Kind       string
	Title      string
	Message    string
	Attributes map[string]string
}

// emailKinds are the notices that also go out by email.
var emailKinds = map[string]bool{
	domain.NotificationBookingRequest:  true,
	domain.NotificationBookingAccepted: true,
	domain.NotificationBookingDeclined: true,
	domain.NotificationVerification:    true,
}

type Dispatcher struct {
	notes    repository.NotificationRepository
	profiles repository.ProfileRepository
	email    EmailSender
	push     PushSender
}

// NewDispatcher accepts nil email or push senders to disable that channel.
func NewDispatcher(notes repository.NotificationRepository, profiles repository.ProfileRepository, email EmailSender, push PushSender) *Dispatcher {
	return &Dispatcher{notes: notes, profiles: profiles, email: email, push: push}
}

// Notify returns an error only when the in-app notification could not be stored.
func (d *Dispatcher) Notify(ctx context.Context, n Notice) error {
	attrs := map[string]string{"type": n.Kind}
	for k, v := range n.Attributes {
		attrs[k] = v
	}
	note := &domain.Notification{
		UserID:     n.UserID,
		Title:      n.Title,
		Message:    n.Message,
		Attributes: attrs,
	}
	if err := d.notes.Create(ctx, note); err != nil {
		return fmt.Errorf("store notification for %s: %w", n.UserID, err)
	}

	if d.push == nil && (d.email == nil || !emailKinds[n.Kind]) {
		return nil
	}
	profile, err := d.profiles.GetByID(ctx, n.UserID)
	if err != nil {
		logger.Warn("Skipping external delivery, profile lookup failed", "userID", n.UserID, "error", err)
		return nil
	}

	if d.push != nil && profile.PushToken != "" {
		if err := d.push.Push(ctx, profile.PushToken, n.Title, n.Message, attrs); err != nil {
			logger.Warn("Push delivery failed", "userID", n.UserID, "kind", n.Kind, "error", err)
		}
	}
	if d.email != nil && emailKinds[n.Kind] && profile.Email != "" {
		if err := d.email.SendEmail(ctx, profile.Email, profile.Name, n.Title, n.Message, ""); err != nil {
			logger.Warn("Email delivery failed", "userID", n.UserID, "kind", n.Kind, "error", err)
		}
	}
	return nil
}
