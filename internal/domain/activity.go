package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ActivityBookingRequested   = "booking_requested"
	ActivityBookingAccepted    = "booking_accepted"
	ActivityBookingDeclined    = "booking_declined"
	ActivityBookingCancelled   = "booking_cancelled"
	ActivityListingCreated     = "listing_created"
	ActivityListingRemoved     = "listing_removed"
	ActivityListingPaused      = "listing_paused"
	ActivityListingResumed     = "listing_resumed"
	ActivityReviewAdded        = "review_added"
	ActivityVerificationSent   = "verification_submitted"
	ActivityVerificationReview = "verification_reviewed"
)

type Activity struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"user_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedOn time.Time      `json:"created_on"`
}

// OwnerStats summarises a lender's activity.
type OwnerStats struct {
	Listings       int             `json:"listings"`
	ActiveListings int             `json:"active_listings"`
	Bookings       int             `json:"bookings"`
	Completed      int             `json:"completed"`
	Earnings       decimal.Decimal `json:"earnings"`
	ByCategory     map[string]int  `json:"by_category"`
}
