package repository

import (
	"context"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
)

// BookingLedger owns booking records. CreateBooking must be atomic per item:
// the overlap check and the insert happen under one exclusion keyed by ItemID.
type BookingLedger interface {
	// CreateBooking returns *domain.ConflictError if the range overlaps a
	// non-cancelled booking of the same item.
	CreateBooking(ctx context.Context, nb domain.NewBooking) (*domain.Booking, error)
	// Transition returns *domain.InvalidTransitionError unless the move is
	// pending->active, pending->cancelled or active->completed.
	Transition(ctx context.Context, bookingID string, to domain.BookingStatus) (*domain.Booking, error)
	ListForItem(ctx context.Context, itemID string) ([]domain.Booking, error)
	ListForUser(ctx context.Context, userID string, role domain.BookingRole) ([]domain.Booking, error)

	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListActiveEndedBefore(ctx context.Context, day calendar.Date) ([]domain.Booking, error)
}

type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	Update(ctx context.Context, l *domain.Listing) error
	SetStatus(ctx context.Context, id string, status domain.ListingStatus) error
	Browse(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	// ListByOwner with an empty status returns every listing that is not removed.
	ListByOwner(ctx context.Context, ownerID string, status domain.ListingStatus) ([]domain.Listing, error)

	// Saved items
	Save(ctx context.Context, userID, listingID string) error
	Unsave(ctx context.Context, userID, listingID string) error
	ListSaved(ctx context.Context, userID string) ([]domain.Listing, error)
}

type MessageRepository interface {
	GetOrCreateThread(ctx context.Context, userA, userB string) (*domain.Thread, error)
	FindThread(ctx context.Context, userA, userB string) (*domain.Thread, error)
	// AddMessage stores m and moves its thread to the top of both inboxes.
	AddMessage(ctx context.Context, m *domain.Message) error
	ListThreads(ctx context.Context, userID string) ([]domain.ThreadSummary, error)
	ListMessages(ctx context.Context, threadID string) ([]domain.Message, error)
	// MarkRead marks messages sent to readerID in the thread as read.
	MarkRead(ctx context.Context, threadID, readerID string) (int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	ListByItem(ctx context.Context, itemID string) ([]domain.Review, error)
	Summary(ctx context.Context, itemID string) (*domain.ReviewSummary, error)
	HasReviewed(ctx context.Context, authorID, itemID string) (bool, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, p *domain.Profile) error
	SetStripeCustomerID(ctx context.Context, id, customerID string) error
	SetVerificationStatus(ctx context.Context, id string, status domain.VerificationStatus) error
}

type VerificationRepository interface {
	Create(ctx context.Context, req *domain.VerificationRequest) error
	GetByID(ctx context.Context, id string) (*domain.VerificationRequest, error)
	// List with an empty status returns every request, newest first.
	List(ctx context.Context, status domain.VerificationStatus) ([]domain.VerificationRequest, error)
	Update(ctx context.Context, req *domain.VerificationRequest) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}

type ActivityRepository interface {
	Log(ctx context.Context, a *domain.Activity) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error)
}
