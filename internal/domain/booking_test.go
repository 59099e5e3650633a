package domain

import (
	"errors"
	"fmt"
	"testing"

	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/calendar"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []BookingStatus{BookingStatusPending, BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled}
	allowed := map[[2]BookingStatus]bool{
		{BookingStatusPending, BookingStatusActive}:    true,
		{BookingStatusPending, BookingStatusCancelled}: true,
		{BookingStatusActive, BookingStatusCompleted}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]BookingStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestBookedIntervals(t *testing.T) {
	iv := func(a, b int) availability.Interval {
		return availability.NewInterval(calendar.New(2026, 3, a), calendar.New(2026, 3, b))
	}
	bookings := []Booking{
		{ID: "1", Range: iv(1, 3), Status: BookingStatusPending},
		{ID: "2", Range: iv(5, 6), Status: BookingStatusCancelled},
		{ID: "3", Range: iv(8, 9), Status: BookingStatusCompleted},
	}
	assert.Equal(t, []availability.Interval{iv(1, 3), iv(8, 9)}, BookedIntervals(bookings))
}

func TestErrors(t *testing.T) {
	var conflict error = &ConflictError{ItemID: "item-1"}
	wrapped := fmt.Errorf("create booking: %w", conflict)

	var ce *ConflictError
	assert.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, "item-1", ce.ItemID)

	err := Validationf("rating must be between %d and %d", 1, 5)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "rating must be between 1 and 5")
}

func TestVerificationStatus_CanSubmit(t *testing.T) {
	assert.True(t, VerificationUnverified.CanSubmit())
	assert.True(t, VerificationRejected.CanSubmit())
	assert.False(t, VerificationPending.CanSubmit())
	assert.False(t, VerificationVerified.CanSubmit())
}
