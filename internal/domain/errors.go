package domain

import (
	"errors"
	"fmt"

	"rentshare-backend/internal/availability"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ConflictError is returned when a requested range overlaps a booking that
// still holds the item.
type ConflictError struct {
	ItemID    string
	Requested availability.Interval
	Existing  availability.Interval
	BookingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("item %s is already booked %s (requested %s)", e.ItemID, e.Existing, e.Requested)
}

// InvalidTransitionError is returned for a status change outside the booking lifecycle.
type InvalidTransitionError struct {
	BookingID string
	From      BookingStatus
	To        BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot move from %s to %s", e.BookingID, e.From, e.To)
}

// Validationf wraps ErrValidation with a message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
