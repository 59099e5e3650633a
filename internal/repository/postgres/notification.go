package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.Attributes == nil {
		n.Attributes = map[string]string{}
	}
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return fmt.Errorf("marshal notification attributes: %w", err)
	}
	logger.Debug("Notification attributes marshaled", "attributesJSON", string(attrs))

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedOn.IsZero() {
		n.CreatedOn = time.Now().UTC()
	}

	query := `INSERT INTO notifications (id, user_id, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID, "title", n.Title)
	_, err = r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.IsRead, attrs, n.CreatedOn)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)
	return mapError(err, "create notification")
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, mapError(err, "count notifications")
	}

	query := `SELECT id, user_id, title, message, is_read, attributes, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err, "list notifications")
	}
	defer rows.Close()

	notes := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, fmt.Errorf("decode attributes of notification %s: %w", n.ID, err)
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return mapError(err, "mark notification read")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
