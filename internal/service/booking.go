package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/metrics"
	"rentshare-backend/internal/notify"
	"rentshare-backend/internal/pricing"
	"rentshare-backend/internal/repository"
)

type bookingService struct {
	ledger    repository.BookingLedger
	listings  repository.ListingRepository
	calendars CalendarService
	activity  repository.ActivityRepository
	notifier  Notifier
	now       func() time.Time
	loc       *time.Location
}

func NewBookingService(
	ledger repository.BookingLedger,
	listings repository.ListingRepository,
	calendars CalendarService,
	activity repository.ActivityRepository,
	notifier Notifier,
	loc *time.Location,
) BookingService {
	return &bookingService{
		ledger:    ledger,
		listings:  listings,
		calendars: calendars,
		activity:  activity,
		notifier:  notifier,
		now:       time.Now,
		loc:       loc,
	}
}

func (s *bookingService) today() calendar.Date {
	return calendar.Today(s.now(), s.loc)
}

// requestedRange validates a renter's range against today.
func (s *bookingService) requestedRange(start, end calendar.Date) (availability.Interval, error) {
	if start.IsZero() || end.IsZero() {
		return availability.Interval{}, domain.Validationf("start and end dates are required")
	}
	if end.Before(start) {
		return availability.Interval{}, domain.Validationf("end date %s is before start date %s", end, start)
	}
	if availability.IsPast(start, s.today()) {
		return availability.Interval{}, domain.Validationf("start date %s is in the past", start)
	}
	return availability.Interval{Start: start, End: end}, nil
}

func (s *bookingService) Quote(ctx context.Context, itemID string, start, end calendar.Date, delivery bool) (*pricing.Breakdown, error) {
	rng, err := s.requestedRange(start, end)
	if err != nil {
		return nil, err
	}
	listing, err := s.listings.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if delivery && !listing.DeliveryAvailable {
		return nil, domain.Validationf("delivery is not offered for this item")
	}
	b := pricing.Quote(listing.DailyRate, rng, delivery)
	return &b, nil
}

func (s *bookingService) RequestBooking(ctx context.Context, renterID, itemID string, start, end calendar.Date, delivery bool) (*domain.Booking, error) {
	rng, err := s.requestedRange(start, end)
	if err != nil {
		return nil, err
	}
	listing, err := s.listings.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !listing.Bookable() {
		return nil, domain.Validationf("item %s is not available for booking", itemID)
	}
	if listing.OwnerID == renterID {
		return nil, domain.Validationf("you cannot rent your own item")
	}
	if delivery && !listing.DeliveryAvailable {
		return nil, domain.Validationf("delivery is not offered for this item")
	}

	quote := pricing.Quote(listing.DailyRate, rng, delivery)
	booking, err := s.ledger.CreateBooking(ctx, domain.NewBooking{
		ItemID:     itemID,
		RenterID:   renterID,
		OwnerID:    listing.OwnerID,
		Range:      rng,
		TotalPrice: quote.Total,
		Delivery:   delivery,
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}
	metrics.IncBookingCreated(string(booking.Status))
	s.calendars.Invalidate(ctx, itemID)

	logger.FromContext(ctx).Info("Booking requested", "bookingID", booking.ID, "itemID", itemID, "range", rng.String())
	recordActivity(ctx, s.activity, renterID, domain.ActivityBookingRequested, map[string]any{
		"booking_id": booking.ID,
		"item_id":    itemID,
		"start":      rng.Start.String(),
		"end":        rng.End.String(),
		"total":      quote.Total.String(),
	})
	notifyUser(ctx, s.notifier, notify.Notice{
		UserID:     listing.OwnerID,
		Kind:       domain.NotificationBookingRequest,
		Title:      "New booking request",
		Message:    fmt.Sprintf("%s requested for %s to %s", listing.Title, rng.Start, rng.End),
		Attributes: map[string]string{"booking_id": booking.ID, "item_id": itemID},
	})
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	b, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrForbidden)
	}
	return b, nil
}

func (s *bookingService) Accept(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return s.decide(ctx, ownerID, bookingID, domain.BookingStatusActive)
}

func (s *bookingService) Decline(ctx context.Context, ownerID, bookingID string) (*domain.Booking, error) {
	return s.decide(ctx, ownerID, bookingID, domain.BookingStatusCancelled)
}

func (s *bookingService) decide(ctx context.Context, ownerID, bookingID string, to domain.BookingStatus) (*domain.Booking, error) {
	current, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != ownerID {
		return nil, fmt.Errorf("only the owner can decide on booking %s: %w", bookingID, domain.ErrForbidden)
	}
	if current.Status != domain.BookingStatusPending {
		return nil, &domain.InvalidTransitionError{BookingID: bookingID, From: current.Status, To: to}
	}
	b, err := s.ledger.Transition(ctx, bookingID, to)
	if err != nil {
		return nil, err
	}
	metrics.IncBookingTransition(string(to))

	action, kind, title := domain.ActivityBookingAccepted, domain.NotificationBookingAccepted, "Booking accepted"
	if to == domain.BookingStatusCancelled {
		action, kind, title = domain.ActivityBookingDeclined, domain.NotificationBookingDeclined, "Booking declined"
		s.calendars.Invalidate(ctx, b.ItemID)
	}
	recordActivity(ctx, s.activity, ownerID, action, map[string]any{"booking_id": b.ID, "item_id": b.ItemID})
	notifyUser(ctx, s.notifier, notify.Notice{
		UserID:     b.RenterID,
		Kind:       kind,
		Title:      title,
		Message:    fmt.Sprintf("Your booking for %s to %s was %s", b.Range.Start, b.Range.End, statusWord(to)),
		Attributes: map[string]string{"booking_id": b.ID, "item_id": b.ItemID},
	})
	return b, nil
}

func statusWord(to domain.BookingStatus) string {
	if to == domain.BookingStatusActive {
		return "accepted"
	}
	return "declined"
}

func (s *bookingService) Cancel(ctx context.Context, renterID, bookingID string) (*domain.Booking, error) {
	current, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.RenterID != renterID {
		return nil, fmt.Errorf("only the renter can cancel booking %s: %w", bookingID, domain.ErrForbidden)
	}
	b, err := s.ledger.Transition(ctx, bookingID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	metrics.IncBookingTransition(string(domain.BookingStatusCancelled))
	s.calendars.Invalidate(ctx, b.ItemID)
	recordActivity(ctx, s.activity, renterID, domain.ActivityBookingCancelled, map[string]any{"booking_id": b.ID, "item_id": b.ItemID})
	return b, nil
}

func (s *bookingService) ListRentals(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.ledger.ListForUser(ctx, userID, domain.RoleRenter)
}

func (s *bookingService) ListLendings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.ledger.ListForUser(ctx, userID, domain.RoleOwner)
}

func (s *bookingService) OwnerStats(ctx context.Context, ownerID string) (*domain.OwnerStats, error) {
	current, err := s.listings.ListByOwner(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}
	removed, err := s.listings.ListByOwner(ctx, ownerID, domain.ListingStatusRemoved)
	if err != nil {
		return nil, err
	}
	lendings, err := s.ledger.ListForUser(ctx, ownerID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	stats := &domain.OwnerStats{
		Listings:   len(current),
		Earnings:   decimal.Zero,
		ByCategory: map[string]int{},
	}
	category := make(map[string]string, len(current)+len(removed))
	for _, l := range append(current, removed...) {
		category[l.ID] = l.Category
		if l.Status == domain.ListingStatusActive {
			stats.ActiveListings++
		}
	}
	for _, b := range lendings {
		if !b.Blocks() {
			continue
		}
		stats.Bookings++
		if c, ok := category[b.ItemID]; ok {
			stats.ByCategory[c]++
		}
		if b.Status == domain.BookingStatusCompleted {
			stats.Completed++
			stats.Earnings = stats.Earnings.Add(b.TotalPrice)
		}
	}
	return stats, nil
}

func (s *bookingService) CompleteFinished(ctx context.Context, today calendar.Date) (int, error) {
	finished, err := s.ledger.ListActiveEndedBefore(ctx, today)
	if err != nil {
		return 0, err
	}
	completed := 0
	var errs []error
	for _, b := range finished {
		if _, err := s.ledger.Transition(ctx, b.ID, domain.BookingStatusCompleted); err != nil {
			logger.FromContext(ctx).Error("Failed to complete booking", "bookingID", b.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		metrics.IncBookingTransition(string(domain.BookingStatusCompleted))
		completed++
	}
	return completed, errors.Join(errs...)
}
