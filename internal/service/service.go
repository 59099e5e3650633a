package service

import (
	"context"

	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/notify"
	"rentshare-backend/internal/pricing"
	"rentshare-backend/internal/repository"
	"rentshare-backend/internal/selection"
)

type BookingService interface {
	Quote(ctx context.Context, itemID string, start, end calendar.Date, delivery bool) (*pricing.Breakdown, error)
	RequestBooking(ctx context.Context, renterID, itemID string, start, end calendar.Date, delivery bool) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
	Accept(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error)
	Decline(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error)
	Cancel(ctx context.Context, renterID, bookingID string) (*domain.Booking, error)
	ListRentals(ctx context.Context, userID string) ([]domain.Booking, error)
	ListLendings(ctx context.Context, userID string) ([]domain.Booking, error)
	OwnerStats(ctx context.Context, ownerID string) (*domain.OwnerStats, error)
	// CompleteFinished moves active bookings that ended before today to completed.
	CompleteFinished(ctx context.Context, today calendar.Date) (int, error)
}

type CalendarService interface {
	Availability(ctx context.Context, itemID string) ([]availability.Interval, error)
	Calendar(ctx context.Context, itemID string, year, month int, sel selection.State) (*CalendarMonth, error)
	Select(ctx context.Context, itemID string, state selection.State, click calendar.Date, delivery bool) (*SelectionResult, error)
	// Invalidate drops cached availability after the item's bookings change.
	Invalidate(ctx context.Context, itemID string)
}

type ListingService interface {
	Categories() []string
	Create(ctx context.Context, ownerID string, l *domain.Listing) (*domain.Listing, error)
	Update(ctx context.Context, ownerID string, l *domain.Listing) (*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Browse(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	ListMine(ctx context.Context, ownerID string) ([]domain.Listing, error)
	ListRemoved(ctx context.Context, ownerID string) ([]domain.Listing, error)
	Remove(ctx context.Context, ownerID, id string) error
	TogglePause(ctx context.Context, ownerID, id string) (*domain.Listing, error)
	Save(ctx context.Context, userID, id string) error
	Unsave(ctx context.Context, userID, id string) error
	ListSaved(ctx context.Context, userID string) ([]domain.Listing, error)
}

type MessageService interface {
	Send(ctx context.Context, senderID, recipientID, text string) (*domain.Message, error)
	Threads(ctx context.Context, userID string) ([]domain.ThreadSummary, error)
	Chat(ctx context.Context, userID, otherID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, userID, otherID string) (int64, error)
}

type ReviewService interface {
	Add(ctx context.Context, authorID, itemID string, rating int, comment string) (*domain.Review, error)
	ForItem(ctx context.Context, itemID string) ([]domain.Review, error)
	Summary(ctx context.Context, itemID string) (*domain.ReviewSummary, error)
}

type PaymentService interface {
	CreateSetupIntent(ctx context.Context, userID string) (*domain.SetupIntent, error)
	ListCards(ctx context.Context, userID string) ([]domain.Card, error)
	DetachCard(ctx context.Context, userID, paymentMethodID string) error
	SetDefaultCard(ctx context.Context, userID, paymentMethodID string) error
	PreAuthorizeBooking(ctx context.Context, renterID, bookingID, paymentMethodID string) (*domain.PaymentIntent, error)
	Capture(ctx context.Context, intentID string, amountCents int64) (*domain.PaymentIntent, error)
	CancelAuthorization(ctx context.Context, intentID string) (*domain.PaymentIntent, error)
	Refund(ctx context.Context, intentID string, amountCents int64, reason string) (*domain.Refund, error)
}

type VerificationService interface {
	Submit(ctx context.Context, userID, idDocumentPath, selfiePath string) (*domain.VerificationRequest, error)
	Status(ctx context.Context, userID string) (domain.VerificationStatus, error)
	ListRequests(ctx context.Context, pendingOnly bool) ([]domain.VerificationRequest, error)
	Review(ctx context.Context, adminID, requestID string, decision domain.VerificationDecision, reason string) (*domain.VerificationRequest, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

type ActivityService interface {
	List(ctx context.Context, userID string, limit int) ([]domain.Activity, error)
}

// Notifier delivers a notice to a user; *notify.Dispatcher implements it.
type Notifier interface {
	Notify(ctx context.Context, n notify.Notice) error
}

// AvailabilityCache is satisfied by *cache.AvailabilityCache, including a nil one.
type AvailabilityCache interface {
	Get(ctx context.Context, itemID string) ([]availability.Interval, int64, bool, error)
	Set(ctx context.Context, itemID string, gen int64, intervals []availability.Interval) error
	Invalidate(ctx context.Context, itemID string) error
}

// recordActivity never fails the caller.
func recordActivity(ctx context.Context, repo repository.ActivityRepository, userID, action string, details map[string]any) {
	if repo == nil {
		return
	}
	if err := repo.Log(ctx, &domain.Activity{UserID: userID, Action: action, Details: details}); err != nil {
		logger.FromContext(ctx).Warn("Failed to record activity", "userID", userID, "action", action, "error", err)
	}
}

func notifyUser(ctx context.Context, n Notifier, notice notify.Notice) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, notice); err != nil {
		logger.FromContext(ctx).Warn("Failed to notify user", "userID", notice.UserID, "kind", notice.Kind, "error", err)
	}
}
