package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
)

// Refund reasons accepted by Stripe.
var refundReasons = map[string]bool{
	"":                      true,
	"duplicate":             true,
	"fraudulent":            true,
	"requested_by_customer": true,
}

type StripeProcessor struct {
	api      *client.API
	currency string
}

func NewStripeProcessor(secretKey, currency string) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, nil), currency: currency}
}

// newStripeProcessorWithBackends points the client at a custom backend, e.g. a test server.
func newStripeProcessorWithBackends(secretKey, currency string, backends *stripe.Backends) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, backends), currency: currency}
}

func (s *StripeProcessor) CreateCustomer(ctx context.Context, userID, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)

	logger.ExternalServiceCall("stripe", "customers.create", "userID", userID)
	c, err := s.api.Customers.New(params)
	logger.ExternalServiceResult("stripe", "customers.create", err)
	if err != nil {
		return "", stripeError(err, "create stripe customer")
	}
	return c.ID, nil
}

func (s *StripeProcessor) CreateSetupIntent(ctx context.Context, customerID string) (*domain.SetupIntent, error) {
	params := &stripe.SetupIntentParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Usage:              stripe.String(string(stripe.SetupIntentUsageOffSession)),
	}
	params.Context = ctx

	logger.ExternalServiceCall("stripe", "setup_intents.create", "customerID", customerID)
	si, err := s.api.SetupIntents.New(params)
	logger.ExternalServiceResult("stripe", "setup_intents.create", err)
	if err != nil {
		return nil, stripeError(err, "create setup intent")
	}
	return &domain.SetupIntent{ID: si.ID, ClientSecret: si.ClientSecret}, nil
}

func (s *StripeProcessor) defaultCard(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	c, err := s.api.Customers.Get(customerID, params)
	if err != nil {
		return "", stripeError(err, "get stripe customer")
	}
	if c.InvoiceSettings == nil || c.InvoiceSettings.DefaultPaymentMethod == nil {
		return "", nil
	}
	return c.InvoiceSettings.DefaultPaymentMethod.ID, nil
}

func (s *StripeProcessor) ListCards(ctx context.Context, customerID string) ([]domain.Card, error) {
	defaultID, err := s.defaultCard(ctx, customerID)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	logger.ExternalServiceCall("stripe", "payment_methods.list", "customerID", customerID)
	cards := make([]domain.Card, 0)
	iter := s.api.PaymentMethods.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		card := domain.Card{ID: pm.ID, IsDefault: pm.ID == defaultID}
		if pm.Card != nil {
			card.Brand = string(pm.Card.Brand)
			card.Last4 = pm.Card.Last4
			card.ExpMonth = pm.Card.ExpMonth
			card.ExpYear = pm.Card.ExpYear
		}
		cards = append(cards, card)
	}
	logger.ExternalServiceResult("stripe", "payment_methods.list", iter.Err(), "count", len(cards))
	if err := iter.Err(); err != nil {
		return nil, stripeError(err, "list payment methods")
	}
	return cards, nil
}

func (s *StripeProcessor) CardCustomer(ctx context.Context, paymentMethodID string) (string, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx
	pm, err := s.api.PaymentMethods.Get(paymentMethodID, params)
	if err != nil {
		return "", stripeError(err, "get payment method")
	}
	if pm.Customer == nil {
		return "", nil
	}
	return pm.Customer.ID, nil
}

func (s *StripeProcessor) DetachCard(ctx context.Context, paymentMethodID string) error {
	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx
	logger.ExternalServiceCall("stripe", "payment_methods.detach", "paymentMethodID", paymentMethodID)
	_, err := s.api.PaymentMethods.Detach(paymentMethodID, params)
	logger.ExternalServiceResult("stripe", "payment_methods.detach", err)
	if err != nil {
		return stripeError(err, "detach payment method")
	}
	return nil
}

func (s *StripeProcessor) SetDefaultCard(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx
	logger.ExternalServiceCall("stripe", "customers.update", "customerID", customerID)
	_, err := s.api.Customers.Update(customerID, params)
	logger.ExternalServiceResult("stripe", "customers.update", err)
	if err != nil {
		return stripeError(err, "set default payment method")
	}
	return nil
}

func (s *StripeProcessor) Authorize(ctx context.Context, p AuthorizeParams) (*domain.PaymentIntent, error) {
	if p.AmountCents <= 0 {
		return nil, domain.Validationf("amount must be positive")
	}
	pmID := p.PaymentMethodID
	if pmID == "" {
		var err error
		if pmID, err = s.defaultCard(ctx, p.CustomerID); err != nil {
			return nil, err
		}
		if pmID == "" {
			return nil, domain.Validationf("no default card on file")
		}
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(p.AmountCents),
		Currency:      stripe.String(s.currency),
		Customer:      stripe.String(p.CustomerID),
		PaymentMethod: stripe.String(pmID),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", p.BookingID)

	logger.ExternalServiceCall("stripe", "payment_intents.create", "bookingID", p.BookingID, "amount", p.AmountCents)
	pi, err := s.api.PaymentIntents.New(params)
	logger.ExternalServiceResult("stripe", "payment_intents.create", err)
	if err != nil {
		return nil, stripeError(err, fmt.Sprintf("authorize booking %s", p.BookingID))
	}
	return toIntent(pi), nil
}

func (s *StripeProcessor) Capture(ctx context.Context, intentID string, amountCents int64) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	if amountCents > 0 {
		params.AmountToCapture = stripe.Int64(amountCents)
	}
	params.Context = ctx
	logger.ExternalServiceCall("stripe", "payment_intents.capture", "intentID", intentID)
	pi, err := s.api.PaymentIntents.Capture(intentID, params)
	logger.ExternalServiceResult("stripe", "payment_intents.capture", err)
	if err != nil {
		return nil, stripeError(err, fmt.Sprintf("capture %s", intentID))
	}
	return toIntent(pi), nil
}

func (s *StripeProcessor) Cancel(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	logger.ExternalServiceCall("stripe", "payment_intents.cancel", "intentID", intentID)
	pi, err := s.api.PaymentIntents.Cancel(intentID, params)
	logger.ExternalServiceResult("stripe", "payment_intents.cancel", err)
	if err != nil {
		return nil, stripeError(err, fmt.Sprintf("cancel %s", intentID))
	}
	return toIntent(pi), nil
}

func (s *StripeProcessor) Refund(ctx context.Context, intentID string, amountCents int64, reason string) (*domain.Refund, error) {
	if !refundReasons[reason] {
		return nil, domain.Validationf("unknown refund reason %q", reason)
	}
	params := &stripe.RefundParams{PaymentIntent: stripe.String(intentID)}
	if amountCents > 0 {
		params.Amount = stripe.Int64(amountCents)
	}
	if reason != "" {
		params.Reason = stripe.String(reason)
	}
	params.Context = ctx
	logger.ExternalServiceCall("stripe", "refunds.create", "intentID", intentID)
	r, err := s.api.Refunds.New(params)
	logger.ExternalServiceResult("stripe", "refunds.create", err)
	if err != nil {
		return nil, stripeError(err, fmt.Sprintf("refund %s", intentID))
	}
	return &domain.Refund{ID: r.ID, Status: string(r.Status), AmountCents: r.Amount}, nil
}

// stripeError maps Stripe failures a caller can act on to domain errors.
// Anything else stays an internal error with the Stripe error in the chain.
func stripeError(err error, what string) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return fmt.Errorf("%s: %w", what, err)
	}
	switch {
	case se.Code == stripe.ErrorCodeResourceMissing || se.HTTPStatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %s: %w", what, se.Msg, domain.ErrNotFound)
	case se.Type == stripe.ErrorTypeCard || se.Type == stripe.ErrorTypeInvalidRequest:
		return fmt.Errorf("%s: %w", what, domain.Validationf("%s", se.Msg))
	}
	return fmt.Errorf("%s: %w", what, err)
}

func toIntent(pi *stripe.PaymentIntent) *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:          pi.ID,
		Status:      string(pi.Status),
		AmountCents: pi.Amount,
		Currency:    string(pi.Currency),
	}
}
