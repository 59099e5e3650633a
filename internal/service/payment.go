package service

import (
	"context"
	"fmt"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/payments"
	"rentshare-backend/internal/pricing"
	"rentshare-backend/internal/repository"
)

type paymentService struct {
	processor payments.Processor
	profiles  repository.ProfileRepository
	ledger    repository.BookingLedger
}

func NewPaymentService(processor payments.Processor, profiles repository.ProfileRepository, ledger repository.BookingLedger) PaymentService {
	return &paymentService{processor: processor, profiles: profiles, ledger: ledger}
}

// customerFor returns the processor customer of userID, creating it on first use.
func (s *paymentService) customerFor(ctx context.Context, userID string) (string, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if p.StripeCustomerID != "" {
		return p.StripeCustomerID, nil
	}
	id, err := s.processor.CreateCustomer(ctx, p.ID, p.Email, p.Name)
	if err != nil {
		return "", err
	}
	if err := s.profiles.SetStripeCustomerID(ctx, p.ID, id); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info("Created payment customer", "userID", userID)
	return id, nil
}

func (s *paymentService) CreateSetupIntent(ctx context.Context, userID string) (*domain.SetupIntent, error) {
	customerID, err := s.customerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.processor.CreateSetupIntent(ctx, customerID)
}

func (s *paymentService) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	customerID, err := s.customerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.processor.ListCards(ctx, customerID)
}

// ownCard checks that the payment method belongs to userID.
func (s *paymentService) ownCard(ctx context.Context, userID, paymentMethodID string) (string, error) {
	if paymentMethodID == "" {
		return "", domain.Validationf("payment method id is required")
	}
	customerID, err := s.customerFor(ctx, userID)
	if err != nil {
		return "", err
	}
	owner, err := s.processor.CardCustomer(ctx, paymentMethodID)
	if err != nil {
		return "", err
	}
	if owner != customerID {
		return "", fmt.Errorf("payment method %s: %w", paymentMethodID, domain.ErrForbidden)
	}
	return customerID, nil
}

func (s *paymentService) DetachCard(ctx context.Context, userID, paymentMethodID string) error {
	if _, err := s.ownCard(ctx, userID, paymentMethodID); err != nil {
		return err
	}
	return s.processor.DetachCard(ctx, paymentMethodID)
}

func (s *paymentService) SetDefaultCard(ctx context.Context, userID, paymentMethodID string) error {
	customerID, err := s.ownCard(ctx, userID, paymentMethodID)
	if err != nil {
		return err
	}
	return s.processor.SetDefaultCard(ctx, customerID, paymentMethodID)
}

func (s *paymentService) PreAuthorizeBooking(ctx context.Context, renterID, bookingID, paymentMethodID string) (*domain.PaymentIntent, error) {
	b, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != renterID {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrForbidden)
	}
	if b.Status != domain.BookingStatusPending && b.Status != domain.BookingStatusActive {
		return nil, domain.Validationf("booking %s is %s and cannot be paid", bookingID, b.Status)
	}
	if paymentMethodID != "" {
		if _, err := s.ownCard(ctx, renterID, paymentMethodID); err != nil {
			return nil, err
		}
	}
	customerID, err := s.customerFor(ctx, renterID)
	if err != nil {
		return nil, err
	}
	return s.processor.Authorize(ctx, payments.AuthorizeParams{
		CustomerID:      customerID,
		PaymentMethodID: paymentMethodID,
		AmountCents:     pricing.Cents(b.TotalPrice),
		BookingID:       b.ID,
	})
}

func (s *paymentService) Capture(ctx context.Context, intentID string, amountCents int64) (*domain.PaymentIntent, error) {
	if amountCents < 0 {
		return nil, domain.Validationf("amount cannot be negative")
	}
	return s.processor.Capture(ctx, intentID, amountCents)
}

func (s *paymentService) CancelAuthorization(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	return s.processor.Cancel(ctx, intentID)
}

func (s *paymentService) Refund(ctx context.Context, intentID string, amountCents int64, reason string) (*domain.Refund, error) {
	if amountCents < 0 {
		return nil, domain.Validationf("amount cannot be negative")
	}
	return s.processor.Refund(ctx, intentID, amountCents, reason)
}
