package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/notify"
	"rentshare-backend/internal/payments"
	"rentshare-backend/internal/repository/mocks"
)

var (
	testNow  = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	fixedNow = func() time.Time { return testNow }
)

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n notify.Notice) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockProcessor
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) CreateCustomer(ctx context.Context, userID, email, name string) (string, error) {
	args := m.Called(ctx, userID, email, name)
	return args.String(0), args.Error(1)
}
func (m *MockProcessor) CreateSetupIntent(ctx context.Context, customerID string) (*domain.SetupIntent, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SetupIntent), args.Error(1)
}
func (m *MockProcessor) ListCards(ctx context.Context, customerID string) ([]domain.Card, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Card), args.Error(1)
}
func (m *MockProcessor) CardCustomer(ctx context.Context, paymentMethodID string) (string, error) {
	args := m.Called(ctx, paymentMethodID)
	return args.String(0), args.Error(1)
}
func (m *MockProcessor) DetachCard(ctx context.Context, paymentMethodID string) error {
	args := m.Called(ctx, paymentMethodID)
	return args.Error(0)
}
func (m *MockProcessor) SetDefaultCard(ctx context.Context, customerID, paymentMethodID string) error {
	args := m.Called(ctx, customerID, paymentMethodID)
	return args.Error(0)
}
func (m *MockProcessor) Authorize(ctx context.Context, p payments.AuthorizeParams) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
func (m *MockProcessor) Capture(ctx context.Context, intentID string, amountCents int64) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, intentID, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
func (m *MockProcessor) Cancel(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
func (m *MockProcessor) Refund(ctx context.Context, intentID string, amountCents int64, reason string) (*domain.Refund, error) {
	args := m.Called(ctx, intentID, amountCents, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func drill() *domain.Listing {
	return &domain.Listing{
		ID:                "item-1",
		OwnerID:           "owner-1",
		Title:             "Cordless drill",
		Category:          "tools",
		DailyRate:         decimal.NewFromInt(20),
		DeliveryAvailable: true,
		Status:            domain.ListingStatusActive,
	}
}

// quietActivity accepts any activity record.
func quietActivity() *mocks.MockActivityRepo {
	activity := new(mocks.MockActivityRepo)
	activity.On("Log", mock.Anything, mock.Anything).Return(nil).Maybe()
	return activity
}

func quietNotifier() *MockNotifier {
	n := new(MockNotifier)
	n.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()
	return n
}
