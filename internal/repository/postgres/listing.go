package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

// rating is derived from reviews rather than stored on the listing.
const listingSelect = `SELECT l.id, l.owner_id, l.title, l.description, l.category, l.daily_rate, l.location,
	l.image_url, l.delivery_available, l.status,
	COALESCE((SELECT AVG(rv.rating) FROM reviews rv WHERE rv.item_id = l.id), 0)::float8 AS rating,
	l.created_on, l.updated_on
	FROM listings l`

const defaultBrowseLimit = 50

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func scanListing(s scanner) (*domain.Listing, error) {
	var l domain.Listing
	err := s.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Category, &l.DailyRate, &l.Location,
		&l.ImageURL, &l.DeliveryAvailable, &l.Status, &l.Rating, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = domain.ListingStatusActive
	}
	now := time.Now().UTC()
	l.CreatedOn, l.UpdatedOn = now, now

	query := `INSERT INTO listings (id, owner_id, title, description, category, daily_rate, location, image_url,
	          delivery_available, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	logger.DatabaseCall("INSERT", "listings", "ownerID", l.OwnerID, "category", l.Category)
	_, err := r.db.ExecContext(ctx, query, l.ID, l.OwnerID, l.Title, l.Description, l.Category, l.DailyRate,
		l.Location, l.ImageURL, l.DeliveryAvailable, l.Status, l.CreatedOn, l.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "listingID", l.ID)
	return mapError(err, "create listing")
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, listingSelect+` WHERE l.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "listing "+id)
	}
	return l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	l.UpdatedOn = time.Now().UTC()
	query := `UPDATE listings SET title = $1, description = $2, category = $3, daily_rate = $4, location = $5,
	          image_url = $6, delivery_available = $7, updated_on = $8 WHERE id = $9`
	res, err := r.db.ExecContext(ctx, query, l.Title, l.Description, l.Category, l.DailyRate, l.Location,
		l.ImageURL, l.DeliveryAvailable, l.UpdatedOn, l.ID)
	return expectRow(res, err, "listing "+l.ID)
}

func (r *listingRepository) SetStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET status = $1, updated_on = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	return expectRow(res, err, "listing "+id)
}

func (r *listingRepository) Browse(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	where := []string{"l.status = 'active'"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Category != "" {
		where = append(where, "l.category = "+arg(f.Category))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg("%" + q + "%")
		where = append(where, "(l.title ILIKE "+p+" OR l.description ILIKE "+p+")")
	}

	query := `SELECT * FROM (` + listingSelect + ` WHERE ` + strings.Join(where, " AND ") + `) browse`
	if f.MinRating > 0 {
		query += " WHERE rating >= " + arg(f.MinRating)
	}
	switch f.Sort {
	case domain.SortPriceLow:
		query += " ORDER BY daily_rate ASC, created_on DESC"
	case domain.SortPriceHigh:
		query += " ORDER BY daily_rate DESC, created_on DESC"
	case domain.SortRating:
		query += " ORDER BY rating DESC, created_on DESC"
	default:
		query += " ORDER BY created_on DESC"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	query += " LIMIT " + arg(limit) + " OFFSET " + arg(f.Offset)

	return r.list(ctx, query, args...)
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID string, status domain.ListingStatus) ([]domain.Listing, error) {
	if status == "" {
		return r.list(ctx, listingSelect+` WHERE l.owner_id = $1 AND l.status <> 'removed' ORDER BY l.created_on DESC`, ownerID)
	}
	return r.list(ctx, listingSelect+` WHERE l.owner_id = $1 AND l.status = $2 ORDER BY l.created_on DESC`, ownerID, status)
}

func (r *listingRepository) Save(ctx context.Context, userID, listingID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saved_listings (user_id, listing_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, listingID)
	return mapError(err, "save listing "+listingID)
}

func (r *listingRepository) Unsave(ctx context.Context, userID, listingID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM saved_listings WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	return mapError(err, "unsave listing "+listingID)
}

func (r *listingRepository) ListSaved(ctx context.Context, userID string) ([]domain.Listing, error) {
	query := listingSelect + ` JOIN saved_listings s ON s.listing_id = l.id
	          WHERE s.user_id = $1 AND l.status <> 'removed' ORDER BY s.created_on DESC`
	return r.list(ctx, query, userID)
}

func (r *listingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list listings")
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

// expectRow maps an update that touched nothing to ErrNotFound.
func expectRow(res sql.Result, err error, what string) error {
	if err != nil {
		return mapError(err, what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
