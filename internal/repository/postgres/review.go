package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.CreatedOn = time.Now().UTC()
	logger.DatabaseCall("INSERT", "reviews", "itemID", rv.ItemID, "authorID", rv.AuthorID)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (id, item_id, author_id, rating, comment, created_on) VALUES ($1, $2, $3, $4, $5, $6)`,
		rv.ID, rv.ItemID, rv.AuthorID, rv.Rating, rv.Comment, rv.CreatedOn)
	logger.DatabaseResult("INSERT", 1, err, "reviewID", rv.ID)
	return mapError(err, "create review")
}

func (r *reviewRepository) ListByItem(ctx context.Context, itemID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.item_id, r.author_id, COALESCE(p.name, ''), r.rating, r.comment, r.created_on
		 FROM reviews r LEFT JOIN profiles p ON p.id = r.author_id
		 WHERE r.item_id = $1 ORDER BY r.created_on DESC`, itemID)
	if err != nil {
		return nil, mapError(err, "list reviews")
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ItemID, &rv.AuthorID, &rv.AuthorName, &rv.Rating, &rv.Comment, &rv.CreatedOn); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) Summary(ctx context.Context, itemID string) (*domain.ReviewSummary, error) {
	s := &domain.ReviewSummary{ItemID: itemID}
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8, count(*) FROM reviews WHERE item_id = $1`, itemID).
		Scan(&s.Average, &s.Count)
	if err != nil {
		return nil, mapError(err, "review summary")
	}
	return s, nil
}

func (r *reviewRepository) HasReviewed(ctx context.Context, authorID, itemID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE author_id = $1 AND item_id = $2)`, authorID, itemID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "check review")
	}
	return exists, nil
}
