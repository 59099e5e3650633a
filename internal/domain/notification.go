package domain

import "time"

// Notification is an in-app notice shown in the user's activity feed.
type Notification struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}

const (
	NotificationBookingRequest  = "BOOKING_REQUEST"
	NotificationBookingAccepted = "BOOKING_ACCEPTED"
	NotificationBookingDeclined = "BOOKING_DECLINED"
	NotificationNewMessage      = "NEW_MESSAGE"
	NotificationVerification    = "VERIFICATION"
)
