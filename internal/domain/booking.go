package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"rentshare-backend/internal/availability"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:  {BookingStatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookingRole selects which side of a booking a user is on.
type BookingRole string

const (
	RoleRenter BookingRole = "renter"
	RoleOwner  BookingRole = "owner"
)

// Booking is a renter's hold on an item for an inclusive date range.
// Only Status changes after creation.
type Booking struct {
	ID         string                `json:"id"`
	ItemID     string                `json:"item_id"`
	RenterID   string                `json:"renter_id"`
	OwnerID    string                `json:"owner_id"`
	Range      availability.Interval `json:"range"`
	Status     BookingStatus         `json:"status"`
	TotalPrice decimal.Decimal       `json:"total_price"`
	Delivery   bool                  `json:"delivery"`
	CreatedOn  time.Time             `json:"created_on"`
	UpdatedOn  time.Time             `json:"updated_on"`
}

// Blocks reports whether the booking still holds its dates.
func (b *Booking) Blocks() bool {
	return b.Status != BookingStatusCancelled
}

// NewBooking carries the inputs of a ledger insert.
type NewBooking struct {
	ItemID     string
	RenterID   string
	OwnerID    string
	Range      availability.Interval
	TotalPrice decimal.Decimal
	Delivery   bool
}

// BookedIntervals extracts the ranges still held by bookings, in order.
func BookedIntervals(bookings []Booking) []availability.Interval {
	out := make([]availability.Interval, 0, len(bookings))
	for i := range bookings {
		if bookings[i].Blocks() {
			out = append(out, bookings[i].Range)
		}
	}
	return out
}
