package jobs

import (
	"context"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/logger"
)

// CompleteFinishedBookings marks active bookings whose last day has passed as completed.
// Runs daily after midnight in the calendar timezone.
func (jr *JobRunner) CompleteFinishedBookings() {
	jr.runWithRecovery("CompleteFinishedBookings", func(ctx context.Context) error {
		today := calendar.Today(jr.now(), jr.loc)
		n, err := jr.bookings.CompleteFinished(ctx, today)
		if err != nil {
			return err
		}
		logger.Info("Completed finished bookings", "count", n, "today", today)
		return nil
	})
}
