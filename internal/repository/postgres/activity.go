package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository"
)

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Log(ctx context.Context, a *domain.Activity) error {
	if a.Details == nil {
		a.Details = map[string]any{}
	}
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("marshal activity details: %w", err)
	}
	if a.CreatedOn.IsZero() {
		a.CreatedOn = time.Now().UTC()
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO activity_log (user_id, action, details, created_on) VALUES ($1, $2, $3, $4) RETURNING id`,
		a.UserID, a.Action, details, a.CreatedOn).Scan(&a.ID)
	return mapError(err, "log activity")
}

func (r *activityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, details, created_on FROM activity_log
		 WHERE user_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, mapError(err, "list activity")
	}
	defer rows.Close()

	entries := make([]domain.Activity, 0)
	for rows.Next() {
		var a domain.Activity
		var details []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &details, &a.CreatedOn); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &a.Details); err != nil {
				return nil, fmt.Errorf("decode activity %d: %w", a.ID, err)
			}
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
