package jobs

import (
	"context"
	"time"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/config"
	"rentshare-backend/internal/logger"
)

// BookingCompleter is the part of the booking service the nightly job needs
type BookingCompleter interface {
	CompleteFinished(ctx context.Context, today calendar.Date) (int, error)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	bookings BookingCompleter
	config   *config.Config
	loc      *time.Location
	timeout  time.Duration
	now      func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(bookings BookingCompleter, cfg *config.Config) *JobRunner {
	return &JobRunner{
		bookings: bookings,
		config:   cfg,
		loc:      cfg.Location(),
		timeout:  5 * time.Minute,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err := jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start))
		return
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.CompleteFinishedBookings()
}
