package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/cache"
	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository/memory"
	"rentshare-backend/internal/repository/mocks"
	"rentshare-backend/internal/selection"
)

func heldBookings() []domain.Booking {
	return []domain.Booking{
		{ID: "b-1", ItemID: "item-1", Range: availability.NewInterval(march(12), march(14)), Status: domain.BookingStatusActive},
		{ID: "b-2", ItemID: "item-1", Range: availability.NewInterval(march(16), march(17)), Status: domain.BookingStatusCancelled},
		{ID: "b-3", ItemID: "item-1", Range: availability.NewInterval(march(25), march(26)), Status: domain.BookingStatusPending},
	}
}

func newCalendarFixture(c AvailabilityCache) (*calendarService, *mocks.MockBookingLedger, *mocks.MockListingRepo) {
	ledger := new(mocks.MockBookingLedger)
	listings := new(mocks.MockListingRepo)
	return &calendarService{ledger: ledger, listings: listings, cache: c, now: fixedNow, loc: time.UTC}, ledger, listings
}

func TestCalendarService_Availability(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancelled bookings do not block", func(t *testing.T) {
		svc, ledger, _ := newCalendarFixture(nil)
		ledger.On("ListForItem", ctx, "item-1").Return(heldBookings(), nil)

		got, err := svc.Availability(ctx, "item-1")
		require.NoError(t, err)
		assert.Equal(t, []availability.Interval{
			availability.NewInterval(march(12), march(14)),
			availability.NewInterval(march(25), march(26)),
		}, got)
	})

	t.Run("Served from cache after first read", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		svc, ledger, _ := newCalendarFixture(cache.NewAvailabilityCache(rdb, time.Minute))
		ledger.On("ListForItem", ctx, "item-1").Return(heldBookings(), nil).Once()

		first, err := svc.Availability(ctx, "item-1")
		require.NoError(t, err)
		second, err := svc.Availability(ctx, "item-1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		ledger.AssertNumberOfCalls(t, "ListForItem", 1)

		svc.Invalidate(ctx, "item-1")
		ledger.On("ListForItem", ctx, "item-1").Return([]domain.Booking{}, nil).Once()
		third, err := svc.Availability(ctx, "item-1")
		require.NoError(t, err)
		assert.Empty(t, third)
	})

	t.Run("Cache outage falls through to the ledger", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		svc, ledger, _ := newCalendarFixture(cache.NewAvailabilityCache(rdb, time.Minute))
		mr.Close()
		ledger.On("ListForItem", ctx, "item-1").Return(heldBookings(), nil)

		got, err := svc.Availability(ctx, "item-1")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestCalendarService_Calendar(t *testing.T) {
	ctx := context.Background()
	svc, ledger, _ := newCalendarFixture(nil)
	ledger.On("ListForItem", ctx, "item-1").Return(heldBookings(), nil)

	month, err := svc.Calendar(ctx, "item-1", 2026, 3, selection.Completed(march(19), march(21)))
	require.NoError(t, err)
	assert.Equal(t, 0, month.Leading) // 1 March 2026 is a Sunday
	require.Len(t, month.Days, 31)

	assert.True(t, month.Days[8].Past)
	assert.False(t, month.Days[9].Past)
	assert.True(t, month.Days[9].Today)
	assert.True(t, month.Days[11].Booked)
	assert.True(t, month.Days[13].Booked)
	assert.False(t, month.Days[14].Booked)
	assert.False(t, month.Days[15].Booked) // cancelled
	assert.True(t, month.Days[18].Selected)
	assert.True(t, month.Days[19].InRange)
	assert.False(t, month.Days[19].Selected)
	assert.True(t, month.Days[20].Selected)

	assert.Equal(t, MonthRef{Year: 2026, Month: 2}, month.Prev)
	assert.Equal(t, MonthRef{Year: 2026, Month: 4}, month.Next)

	april, err := svc.Calendar(ctx, "item-1", 2026, 4, selection.EmptyState())
	require.NoError(t, err)
	assert.Equal(t, 3, april.Leading) // 1 April 2026 is a Wednesday
	assert.Equal(t, calendar.New(2026, 4, 1), april.Days[0].Date)

	feb, err := svc.Calendar(ctx, "item-1", 2028, 2, selection.EmptyState())
	require.NoError(t, err)
	assert.Len(t, feb.Days, 29)

	dec, err := svc.Calendar(ctx, "item-1", 2026, 12, selection.EmptyState())
	require.NoError(t, err)
	assert.Equal(t, MonthRef{Year: 2027, Month: 1}, dec.Next)

	_, err = svc.Calendar(ctx, "item-1", 2026, 13, selection.EmptyState())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCalendarService_Select(t *testing.T) {
	ctx := context.Background()
	svc, ledger, listings := newCalendarFixture(nil)
	ledger.On("ListForItem", ctx, "item-1").Return(heldBookings(), nil)
	listings.On("GetByID", mock.Anything, "item-1").Return(drill(), nil)

	t.Run("Past and booked clicks are ignored", func(t *testing.T) {
		res, err := svc.Select(ctx, "item-1", selection.EmptyState(), march(9), false)
		require.NoError(t, err)
		assert.Equal(t, selection.Empty, res.State.Kind)

		res, err = svc.Select(ctx, "item-1", selection.Partial(march(10)), march(13), false)
		require.NoError(t, err)
		assert.Equal(t, selection.Partial(march(10)), res.State)
		assert.Nil(t, res.Quote)
	})

	t.Run("Complete selection is quoted", func(t *testing.T) {
		res, err := svc.Select(ctx, "item-1", selection.Partial(march(18)), march(20), true)
		require.NoError(t, err)
		assert.Equal(t, selection.Completed(march(18), march(20)), res.State)
		require.NotNil(t, res.Quote)
		assert.Equal(t, 3, res.Quote.DayCount)
		assert.Equal(t, "112", res.Quote.Total.String())
	})

	t.Run("Range across a booking restarts", func(t *testing.T) {
		res, err := svc.Select(ctx, "item-1", selection.Partial(march(11)), march(15), false)
		require.NoError(t, err)
		assert.Equal(t, selection.Partial(march(15)), res.State)
	})

	t.Run("Earlier click completes backwards", func(t *testing.T) {
		res, err := svc.Select(ctx, "item-1", selection.Partial(march(20)), march(18), false)
		require.NoError(t, err)
		assert.Equal(t, selection.Completed(march(18), march(20)), res.State)
	})

	t.Run("Held start on a booked day is dropped", func(t *testing.T) {
		res, err := svc.Select(ctx, "item-1", selection.Partial(march(14)), march(15), false)
		require.NoError(t, err)
		assert.Equal(t, selection.Partial(march(15)), res.State)
		assert.Nil(t, res.Quote)
	})

	t.Run("Held start in the past is dropped", func(t *testing.T) {
		res, err := svc.Select(ctx, "item-1", selection.Partial(march(8)), march(11), false)
		require.NoError(t, err)
		assert.Equal(t, selection.Partial(march(11)), res.State)
		assert.Nil(t, res.Quote)
	})

	t.Run("Held range over a booking is not quoted", func(t *testing.T) {
		res, err := svc.Select(ctx, "item-1", selection.Completed(march(11), march(13)), march(9), false)
		require.NoError(t, err)
		assert.Equal(t, selection.Empty, res.State.Kind)
		assert.Nil(t, res.Quote)
	})
}

// racingLedger commits a booking between the ledger read and the cache fill.
type racingLedger struct {
	*memory.Ledger
	during func()
}

func (l *racingLedger) ListForItem(ctx context.Context, itemID string) ([]domain.Booking, error) {
	bookings, err := l.Ledger.ListForItem(ctx, itemID)
	if l.during != nil {
		during := l.during
		l.during = nil
		during()
	}
	return bookings, err
}

func TestCalendarService_BookingDuringFillIsNotHidden(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ledger := &racingLedger{Ledger: memory.NewLedger(memory.WithClock(fixedNow))}
	svc := &calendarService{ledger: ledger, cache: cache.NewAvailabilityCache(rdb, 5*time.Minute), now: fixedNow, loc: time.UTC}

	ledger.during = func() {
		_, err := ledger.CreateBooking(ctx, domain.NewBooking{
			ItemID:     "item-1",
			RenterID:   "renter-1",
			OwnerID:    "owner-1",
			Range:      availability.NewInterval(march(20), march(22)),
			TotalPrice: decimal.NewFromInt(97),
		})
		require.NoError(t, err)
		svc.Invalidate(ctx, "item-1")
	}

	first, err := svc.Availability(ctx, "item-1")
	require.NoError(t, err)
	assert.Empty(t, first)

	second, err := svc.Availability(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, []availability.Interval{availability.NewInterval(march(20), march(22))}, second)
}
