// Package payments wraps the card processor used to hold and settle booking payments.
package payments

import (
	"context"

	"rentshare-backend/internal/domain"
)

// AuthorizeParams describes a manual-capture hold. An empty PaymentMethodID
// charges the customer's default card.
type AuthorizeParams struct {
	CustomerID      string
	PaymentMethodID string
	AmountCents     int64
	BookingID       string
}

type Processor interface {
	CreateCustomer(ctx context.Context, userID, email, name string) (string, error)
	CreateSetupIntent(ctx context.Context, customerID string) (*domain.SetupIntent, error)
	ListCards(ctx context.Context, customerID string) ([]domain.Card, error)
	// CardCustomer returns the customer a payment method is attached to.
	CardCustomer(ctx context.Context, paymentMethodID string) (string, error)
	DetachCard(ctx context.Context, paymentMethodID string) error
	SetDefaultCard(ctx context.Context, customerID, paymentMethodID string) error

	Authorize(ctx context.Context, p AuthorizeParams) (*domain.PaymentIntent, error)
	// Capture with amountCents 0 captures the full authorized amount.
	Capture(ctx context.Context, intentID string, amountCents int64) (*domain.PaymentIntent, error)
	Cancel(ctx context.Context, intentID string) (*domain.PaymentIntent, error)
	// Refund with amountCents 0 refunds everything captured.
	Refund(ctx context.Context, intentID string, amountCents int64, reason string) (*domain.Refund, error)
}
