package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/config"
	"rentshare-backend/internal/jobs"
)

type noopCompleter struct{}

func (noopCompleter) CompleteFinished(context.Context, calendar.Date) (int, error) { return 0, nil }

func TestNewScheduler(t *testing.T) {
	t.Run("Registers nightly job", func(t *testing.T) {
		cfg := &config.Config{
			Scheduler: config.SchedulerConfig{CompleteBookings: "0 5 0 * * *"},
			Calendar:  config.CalendarConfig{Timezone: "UTC"},
		}
		s := NewScheduler(jobs.NewJobRunner(noopCompleter{}, cfg))
		assert.True(t, s.IsRunning())
		s.Start()
		s.Stop()
	})

	t.Run("Invalid schedule is skipped", func(t *testing.T) {
		cfg := &config.Config{
			Scheduler: config.SchedulerConfig{CompleteBookings: "not a schedule"},
			Calendar:  config.CalendarConfig{Timezone: "UTC"},
		}
		s := NewScheduler(jobs.NewJobRunner(noopCompleter{}, cfg))
		assert.False(t, s.IsRunning())
	})
}
