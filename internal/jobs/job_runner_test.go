package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/config"
)

type fakeCompleter struct {
	calls []calendar.Date
	err   error
	panic bool
}

func (f *fakeCompleter) CompleteFinished(ctx context.Context, today calendar.Date) (int, error) {
	if f.panic {
		panic("ledger exploded")
	}
	f.calls = append(f.calls, today)
	return len(f.calls), f.err
}

func newRunner(t *testing.T, c *fakeCompleter, tz string) *JobRunner {
	t.Helper()
	cfg := &config.Config{Calendar: config.CalendarConfig{Timezone: tz}}
	jr := NewJobRunner(c, cfg)
	// 23:30 UTC on March 10 is already March 11 in Sydney
	jr.now = func() time.Time { return time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC) }
	return jr
}

func TestCompleteFinishedBookings_UsesCalendarTimezone(t *testing.T) {
	t.Run("UTC", func(t *testing.T) {
		c := &fakeCompleter{}
		newRunner(t, c, "UTC").CompleteFinishedBookings()
		require.Len(t, c.calls, 1)
		assert.Equal(t, calendar.New(2026, 3, 10), c.calls[0])
	})

	t.Run("Sydney", func(t *testing.T) {
		c := &fakeCompleter{}
		newRunner(t, c, "Australia/Sydney").CompleteFinishedBookings()
		require.Len(t, c.calls, 1)
		assert.Equal(t, calendar.New(2026, 3, 11), c.calls[0])
	})
}

func TestCompleteFinishedBookings_ErrorsAndPanicsAreContained(t *testing.T) {
	c := &fakeCompleter{err: errors.New("database unavailable")}
	assert.NotPanics(t, newRunner(t, c, "UTC").CompleteFinishedBookings)
	assert.Len(t, c.calls, 1)

	c = &fakeCompleter{panic: true}
	assert.NotPanics(t, newRunner(t, c, "UTC").RunAllNightlyJobs)
}
