package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

const bookingColumns = `id, item_id, renter_id, owner_id, start_date, end_date, status, total_price, delivery, created_on, updated_on`

type bookingLedger struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func NewBookingLedger(db *sql.DB) repository.BookingLedger {
	return &bookingLedger{db: db, now: time.Now, newID: uuid.NewString}
}

func scanBooking(s scanner) (*domain.Booking, error) {
	var b domain.Booking
	var start, end calendar.Date
	err := s.Scan(&b.ID, &b.ItemID, &b.RenterID, &b.OwnerID, &start, &end, &b.Status, &b.TotalPrice, &b.Delivery, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	b.Range = availability.Interval{Start: start, End: end}
	return &b, nil
}

// CreateBooking serializes writers per item with a transaction-scoped advisory
// lock, so the overlap check and the insert cannot interleave across requests.
func (r *bookingLedger) CreateBooking(ctx context.Context, nb domain.NewBooking) (*domain.Booking, error) {
	if nb.ItemID == "" {
		return nil, domain.Validationf("item id is required")
	}
	if nb.Range.End.Before(nb.Range.Start) {
		return nil, domain.Validationf("range end %s is before start %s", nb.Range.End, nb.Range.Start)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback()

	logger.DatabaseCall("LOCK", "bookings", "itemID", nb.ItemID)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, nb.ItemID); err != nil {
		return nil, fmt.Errorf("lock item %s: %w", nb.ItemID, err)
	}

	var existingID string
	var existingStart, existingEnd calendar.Date
	err = tx.QueryRowContext(ctx,
		`SELECT id, start_date, end_date FROM bookings
		 WHERE item_id = $1 AND status <> 'cancelled' AND start_date <= $3 AND end_date >= $2
		 ORDER BY seq LIMIT 1`,
		nb.ItemID, nb.Range.Start, nb.Range.End,
	).Scan(&existingID, &existingStart, &existingEnd)
	switch {
	case err == nil:
		return nil, &domain.ConflictError{
			ItemID:    nb.ItemID,
			Requested: nb.Range,
			Existing:  availability.Interval{Start: existingStart, End: existingEnd},
			BookingID: existingID,
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, mapError(err, "check booking overlap")
	}

	now := r.now().UTC()
	b := &domain.Booking{
		ID:         r.newID(),
		ItemID:     nb.ItemID,
		RenterID:   nb.RenterID,
		OwnerID:    nb.OwnerID,
		Range:      nb.Range,
		Status:     domain.BookingStatusPending,
		TotalPrice: nb.TotalPrice,
		Delivery:   nb.Delivery,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	query := `INSERT INTO bookings (` + bookingColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	res, err := tx.ExecContext(ctx, query, b.ID, b.ItemID, b.RenterID, b.OwnerID, b.Range.Start, b.Range.End, b.Status, b.TotalPrice, b.Delivery, b.CreatedOn, b.UpdatedOn)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "itemID", nb.ItemID)
		return nil, mapError(err, "insert booking")
	}
	affected, _ := res.RowsAffected()
	logger.DatabaseResult("INSERT", affected, nil, "bookingID", b.ID)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	return b, nil
}

func (r *bookingLedger) Transition(ctx context.Context, bookingID string, to domain.BookingStatus) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transition tx: %w", err)
	}
	defer tx.Rollback()

	var from domain.BookingStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, bookingID).Scan(&from)
	if err != nil {
		return nil, mapError(err, "booking "+bookingID)
	}
	if !domain.CanTransition(from, to) {
		return nil, &domain.InvalidTransitionError{BookingID: bookingID, From: from, To: to}
	}

	query := `UPDATE bookings SET status = $1, updated_on = $2 WHERE id = $3 RETURNING ` + bookingColumns
	b, err := scanBooking(tx.QueryRowContext(ctx, query, to, r.now().UTC(), bookingID))
	if err != nil {
		return nil, mapError(err, "update booking "+bookingID)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return b, nil
}

func (r *bookingLedger) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		return nil, mapError(err, "booking "+bookingID)
	}
	return b, nil
}

func (r *bookingLedger) ListForItem(ctx context.Context, itemID string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE item_id = $1 ORDER BY seq`, itemID)
}

func (r *bookingLedger) ListForUser(ctx context.Context, userID string, role domain.BookingRole) ([]domain.Booking, error) {
	var column string
	switch role {
	case domain.RoleRenter:
		column = "renter_id"
	case domain.RoleOwner:
		column = "owner_id"
	default:
		return nil, domain.Validationf("unknown role %q", role)
	}
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+column+` = $1 ORDER BY seq`, userID)
}

func (r *bookingLedger) ListActiveEndedBefore(ctx context.Context, day calendar.Date) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status = 'active' AND end_date < $1 ORDER BY seq`, day)
}

func (r *bookingLedger) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list bookings")
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
