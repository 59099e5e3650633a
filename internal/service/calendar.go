package service

import (
	"context"
	"time"

	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/metrics"
	"rentshare-backend/internal/pricing"
	"rentshare-backend/internal/repository"
	"rentshare-backend/internal/selection"
)

// CalendarDay is one cell of a month grid.
type CalendarDay struct {
	Date     calendar.Date `json:"date"`
	Booked   bool          `json:"booked"`
	Past     bool          `json:"past"`
	Today    bool          `json:"today"`
	Selected bool          `json:"selected"`
	InRange  bool          `json:"in_range"`
}

// MonthRef names a neighbouring month for navigation.
type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// CalendarMonth is what the calendar display renders: Leading empty cells
// (0 = the month starts on Sunday) followed by one entry per day.
type CalendarMonth struct {
	ItemID    string                  `json:"item_id"`
	Year      int                     `json:"year"`
	Month     int                     `json:"month"`
	Leading   int                     `json:"leading"`
	Days      []CalendarDay           `json:"days"`
	Selection selection.State         `json:"selection"`
	Booked    []availability.Interval `json:"booked"`
	Prev      MonthRef                `json:"prev"`
	Next      MonthRef                `json:"next"`
}

type SelectionResult struct {
	State selection.State    `json:"state"`
	Quote *pricing.Breakdown `json:"quote,omitempty"`
}

type calendarService struct {
	ledger   repository.BookingLedger
	listings repository.ListingRepository
	cache    AvailabilityCache
	now      func() time.Time
	loc      *time.Location
}

func NewCalendarService(ledger repository.BookingLedger, listings repository.ListingRepository, cache AvailabilityCache, loc *time.Location) CalendarService {
	return &calendarService{ledger: ledger, listings: listings, cache: cache, now: time.Now, loc: loc}
}

func (s *calendarService) today() calendar.Date {
	return calendar.Today(s.now(), s.loc)
}

func (s *calendarService) Availability(ctx context.Context, itemID string) ([]availability.Interval, error) {
	// the fill is only written when the generation was read before listing
	var (
		gen      int64
		fillable bool
	)
	if s.cache != nil {
		intervals, g, ok, err := s.cache.Get(ctx, itemID)
		if err != nil {
			logger.FromContext(ctx).Warn("Availability cache read failed", "itemID", itemID, "error", err)
		} else {
			metrics.IncAvailabilityCache(ok)
			if ok {
				return intervals, nil
			}
			gen, fillable = g, true
		}
	}

	bookings, err := s.ledger.ListForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	intervals := domain.BookedIntervals(bookings)

	if fillable {
		if err := s.cache.Set(ctx, itemID, gen, intervals); err != nil {
			logger.FromContext(ctx).Warn("Availability cache write failed", "itemID", itemID, "error", err)
		}
	}
	return intervals, nil
}

func (s *calendarService) Invalidate(ctx context.Context, itemID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, itemID); err != nil {
		logger.FromContext(ctx).Warn("Availability cache invalidation failed", "itemID", itemID, "error", err)
	}
}

func (s *calendarService) Calendar(ctx context.Context, itemID string, year, month int, sel selection.State) (*CalendarMonth, error) {
	if month < 1 || month > 12 {
		return nil, domain.Validationf("month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, domain.Validationf("year out of range")
	}
	intervals, err := s.Availability(ctx, itemID)
	if err != nil {
		return nil, err
	}
	idx := availability.NewIndex(intervals)
	today := s.today()
	rng, complete := sel.Range()

	grid := calendar.MonthGrid(year, month)
	days := make([]CalendarDay, 0, len(grid))
	leading := 0
	for _, d := range grid {
		if d == 0 {
			leading++
			continue
		}
		date := calendar.New(year, month, d)
		cell := CalendarDay{
			Date:   date,
			Booked: idx.IsBooked(date),
			Past:   availability.IsPast(date, today),
			Today:  date.Equal(today),
		}
		switch {
		case complete:
			cell.InRange = rng.Contains(date)
			cell.Selected = date.Equal(rng.Start) || date.Equal(rng.End)
		case sel.Kind == selection.PartialStart:
			cell.Selected = date.Equal(sel.Start)
		}
		days = append(days, cell)
	}

	return &CalendarMonth{
		ItemID:    itemID,
		Year:      year,
		Month:     month,
		Leading:   leading,
		Days:      days,
		Selection: sel,
		Booked:    intervals,
		Prev:      neighbour(year, month, -1),
		Next:      neighbour(year, month, 1),
	}, nil
}

func neighbour(year, month, delta int) MonthRef {
	y, m := calendar.ShiftMonth(year, month, delta)
	return MonthRef{Year: y, Month: m}
}

func (s *calendarService) Select(ctx context.Context, itemID string, state selection.State, click calendar.Date, delivery bool) (*SelectionResult, error) {
	intervals, err := s.Availability(ctx, itemID)
	if err != nil {
		return nil, err
	}
	idx, today := availability.NewIndex(intervals), s.today()
	next := selection.Next(selection.Revalidate(state, idx, today), click, idx, today)
	result := &SelectionResult{State: next}

	if rng, ok := next.Range(); ok {
		listing, err := s.listings.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		quote := pricing.Quote(listing.DailyRate, rng, delivery && listing.DeliveryAvailable)
		result.Quote = &quote
	}
	return result, nil
}
