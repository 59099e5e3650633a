package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
	"rentshare-backend/migrations"
)

type Store struct {
	db *sql.DB
	repository.BookingLedger
	repository.ListingRepository
	repository.MessageRepository
	repository.ReviewRepository
	repository.ProfileRepository
	repository.VerificationRepository
	repository.NotificationRepository
	repository.ActivityRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		BookingLedger:          NewBookingLedger(db),
		ListingRepository:      NewListingRepository(db),
		MessageRepository:      NewMessageRepository(db),
		ReviewRepository:       NewReviewRepository(db),
		ProfileRepository:      NewProfileRepository(db),
		VerificationRepository: NewVerificationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ActivityRepository:     NewActivityRepository(db),
	}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate applies every pending migration embedded in the binary.
func Migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("Applied migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Postgres error codes the repositories translate
const (
	codeInvalidText     = "22P02"
	codeForeignKey      = "23503"
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// mapError turns driver errors into domain errors, keeping the original in the chain.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeInvalidText:
			// malformed UUIDs cannot match any row
			return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		case codeForeignKey:
			return fmt.Errorf("%s: referenced record missing: %w", what, domain.ErrNotFound)
		case codeUniqueViolation:
			return fmt.Errorf("%s: already exists: %w", what, domain.ErrValidation)
		case codeCheckViolation:
			return fmt.Errorf("%s: %s: %w", what, pqErr.Message, domain.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
