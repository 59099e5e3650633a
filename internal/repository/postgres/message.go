package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) GetOrCreateThread(ctx context.Context, userA, userB string) (*domain.Thread, error) {
	a, b := domain.ThreadPair(userA, userB)
	now := time.Now().UTC()
	// the no-op update makes RETURNING yield the existing row on conflict
	query := `INSERT INTO message_threads (id, user_a, user_b, last_message_at, created_on)
	          VALUES ($1, $2, $3, $4, $4)
	          ON CONFLICT (user_a, user_b) DO UPDATE SET user_a = EXCLUDED.user_a
	          RETURNING id, user_a, user_b, last_message_at, created_on`
	logger.DatabaseCall("UPSERT", "message_threads", "userA", a, "userB", b)
	var t domain.Thread
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), a, b, now).
		Scan(&t.ID, &t.UserA, &t.UserB, &t.LastMessageAt, &t.CreatedOn)
	if err != nil {
		return nil, mapError(err, "open thread")
	}
	return &t, nil
}

func (r *messageRepository) FindThread(ctx context.Context, userA, userB string) (*domain.Thread, error) {
	a, b := domain.ThreadPair(userA, userB)
	var t domain.Thread
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_a, user_b, last_message_at, created_on FROM message_threads WHERE user_a = $1 AND user_b = $2`,
		a, b).Scan(&t.ID, &t.UserA, &t.UserB, &t.LastMessageAt, &t.CreatedOn)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("thread %s/%s", a, b))
	}
	return &t, nil
}

func (r *messageRepository) AddMessage(ctx context.Context, m *domain.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin message tx: %w", err)
	}
	defer tx.Rollback()

	logger.DatabaseCall("INSERT", "messages", "threadID", m.ThreadID, "senderID", m.SenderID)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (id, thread_id, sender_id, body, sent_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ThreadID, m.SenderID, m.Text, m.SentAt); err != nil {
		return mapError(err, "insert message")
	}
	res, err := tx.ExecContext(ctx, `UPDATE message_threads SET last_message_at = $1 WHERE id = $2`, m.SentAt, m.ThreadID)
	if err := expectRow(res, err, "thread "+m.ThreadID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *messageRepository) ListThreads(ctx context.Context, userID string) ([]domain.ThreadSummary, error) {
	query := `SELECT t.id, t.user_a, t.user_b, t.last_message_at, t.created_on,
	          CASE WHEN t.user_a = $1 THEN t.user_b ELSE t.user_a END AS other_id,
	          COALESCE(p.name, ''),
	          COALESCE((SELECT body FROM messages m WHERE m.thread_id = t.id ORDER BY m.sent_at DESC LIMIT 1), ''),
	          (SELECT count(*) FROM messages m WHERE m.thread_id = t.id AND m.sender_id <> $1 AND m.read_at IS NULL)
	          FROM message_threads t
	          LEFT JOIN profiles p ON p.id = CASE WHEN t.user_a = $1 THEN t.user_b ELSE t.user_a END
	          WHERE t.user_a = $1 OR t.user_b = $1
	          ORDER BY t.last_message_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, "list threads")
	}
	defer rows.Close()

	threads := make([]domain.ThreadSummary, 0)
	for rows.Next() {
		var s domain.ThreadSummary
		if err := rows.Scan(&s.ID, &s.UserA, &s.UserB, &s.LastMessageAt, &s.CreatedOn,
			&s.OtherUserID, &s.OtherName, &s.LastMessage, &s.Unread); err != nil {
			return nil, err
		}
		threads = append(threads, s)
	}
	return threads, rows.Err()
}

func (r *messageRepository) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, thread_id, sender_id, body, sent_at, read_at FROM messages WHERE thread_id = $1 ORDER BY sent_at, id`,
		threadID)
	if err != nil {
		return nil, mapError(err, "list messages")
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Text, &m.SentAt, &readAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			m.ReadAt = &t
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, threadID, readerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at = $1 WHERE thread_id = $2 AND sender_id <> $3 AND read_at IS NULL`,
		time.Now().UTC(), threadID, readerID)
	if err != nil {
		return 0, mapError(err, "mark messages read")
	}
	return res.RowsAffected()
}
