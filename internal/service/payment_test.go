package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/payments"
	"rentshare-backend/internal/repository/mocks"
)

func TestPaymentService_CustomerCreatedOnce(t *testing.T) {
	ctx := context.Background()
	processor := new(MockProcessor)
	profiles := new(mocks.MockProfileRepo)
	svc := NewPaymentService(processor, profiles, nil)

	profiles.On("GetByID", ctx, "u-1").Return(&domain.Profile{ID: "u-1", Email: "u1@test.com", Name: "Una"}, nil).Once()
	processor.On("CreateCustomer", ctx, "u-1", "u1@test.com", "Una").Return("cus_1", nil).Once()
	profiles.On("SetStripeCustomerID", ctx, "u-1", "cus_1").Return(nil).Once()
	processor.On("CreateSetupIntent", ctx, "cus_1").Return(&domain.SetupIntent{ID: "seti_1", ClientSecret: "secret"}, nil)

	si, err := svc.CreateSetupIntent(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "secret", si.ClientSecret)

	profiles.On("GetByID", ctx, "u-1").Return(&domain.Profile{ID: "u-1", StripeCustomerID: "cus_1"}, nil)
	processor.On("ListCards", ctx, "cus_1").Return([]domain.Card{{ID: "pm_1"}}, nil)
	cards, err := svc.ListCards(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, cards, 1)
	processor.AssertNumberOfCalls(t, "CreateCustomer", 1)
}

func TestPaymentService_CardOwnership(t *testing.T) {
	ctx := context.Background()
	processor := new(MockProcessor)
	profiles := new(mocks.MockProfileRepo)
	svc := NewPaymentService(processor, profiles, nil)

	profiles.On("GetByID", ctx, "u-1").Return(&domain.Profile{ID: "u-1", StripeCustomerID: "cus_1"}, nil)
	processor.On("CardCustomer", ctx, "pm_mine").Return("cus_1", nil)
	processor.On("CardCustomer", ctx, "pm_other").Return("cus_2", nil)
	processor.On("DetachCard", ctx, "pm_mine").Return(nil)
	processor.On("SetDefaultCard", ctx, "cus_1", "pm_mine").Return(nil)

	assert.NoError(t, svc.DetachCard(ctx, "u-1", "pm_mine"))
	assert.NoError(t, svc.SetDefaultCard(ctx, "u-1", "pm_mine"))
	assert.ErrorIs(t, svc.DetachCard(ctx, "u-1", "pm_other"), domain.ErrForbidden)
	assert.ErrorIs(t, svc.SetDefaultCard(ctx, "u-1", ""), domain.ErrValidation)
	processor.AssertNotCalled(t, "DetachCard", ctx, "pm_other")
}

func TestPaymentService_PreAuthorizeBooking(t *testing.T) {
	ctx := context.Background()

	booking := &domain.Booking{
		ID:         "b-1",
		RenterID:   "renter-1",
		Status:     domain.BookingStatusPending,
		TotalPrice: decimal.RequireFromString("97.5"),
	}

	t.Run("Holds the booking total", func(t *testing.T) {
		processor := new(MockProcessor)
		profiles := new(mocks.MockProfileRepo)
		ledger := new(mocks.MockBookingLedger)
		svc := NewPaymentService(processor, profiles, ledger)

		ledger.On("GetByID", ctx, "b-1").Return(booking, nil)
		profiles.On("GetByID", ctx, "renter-1").Return(&domain.Profile{ID: "renter-1", StripeCustomerID: "cus_r"}, nil)
		processor.On("Authorize", ctx, payments.AuthorizeParams{
			CustomerID:  "cus_r",
			AmountCents: 9750,
			BookingID:   "b-1",
		}).Return(&domain.PaymentIntent{ID: "pi_1", Status: "requires_capture", AmountCents: 9750}, nil)

		pi, err := svc.PreAuthorizeBooking(ctx, "renter-1", "b-1", "")
		require.NoError(t, err)
		assert.Equal(t, "requires_capture", pi.Status)
	})

	t.Run("Not the renter", func(t *testing.T) {
		ledger := new(mocks.MockBookingLedger)
		svc := NewPaymentService(new(MockProcessor), new(mocks.MockProfileRepo), ledger)
		ledger.On("GetByID", ctx, "b-1").Return(booking, nil)

		_, err := svc.PreAuthorizeBooking(ctx, "owner-1", "b-1", "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Closed booking", func(t *testing.T) {
		ledger := new(mocks.MockBookingLedger)
		svc := NewPaymentService(new(MockProcessor), new(mocks.MockProfileRepo), ledger)
		closed := *booking
		closed.Status = domain.BookingStatusCancelled
		ledger.On("GetByID", ctx, "b-1").Return(&closed, nil)

		_, err := svc.PreAuthorizeBooking(ctx, "renter-1", "b-1", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPaymentService_AdminOperations(t *testing.T) {
	ctx := context.Background()
	processor := new(MockProcessor)
	svc := NewPaymentService(processor, nil, nil)

	processor.On("Capture", ctx, "pi_1", int64(0)).Return(&domain.PaymentIntent{ID: "pi_1", Status: "succeeded"}, nil)
	processor.On("Refund", ctx, "pi_1", int64(500), "requested_by_customer").Return(&domain.Refund{ID: "re_1", AmountCents: 500}, nil)

	pi, err := svc.Capture(ctx, "pi_1", 0)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", pi.Status)

	re, err := svc.Refund(ctx, "pi_1", 500, "requested_by_customer")
	require.NoError(t, err)
	assert.Equal(t, int64(500), re.AmountCents)

	_, err = svc.Capture(ctx, "pi_1", -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
