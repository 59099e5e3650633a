package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentshare-backend/internal/domain"
)

func TestNotificationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewNotificationRepository(db)

	n := &domain.Notification{
		UserID:     "owner-1",
		Title:      "New booking request",
		Message:    "Feb 20 - Feb 23",
		Attributes: map[string]string{"type": domain.NotificationBookingRequest, "booking_id": "b-1"},
	}
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "owner-1", n.Title, n.Message, false,
			[]byte(`{"booking_id":"b-1","type":"BOOKING_REQUEST"}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), n))
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedOn.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM notifications WHERE user_id = \$1`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM notifications WHERE user_id = \$1 ORDER BY created_on DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("owner-1", int32(2), int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "is_read", "attributes", "created_on"}).
			AddRow("n-1", "owner-1", "A", "a", false, []byte(`{"type":"NEW_MESSAGE"}`), fixedNow).
			AddRow("n-2", "owner-1", "B", "b", true, []byte(`{}`), fixedNow))

	notes, total, err := repo.List(context.Background(), "owner-1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(3), total)
	require.Len(t, notes, 2)
	assert.Equal(t, domain.NotificationNewMessage, notes[0].Attributes["type"])
	assert.True(t, notes[1].IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(`UPDATE notifications SET is_read = TRUE`).
		WithArgs("n-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE notifications SET is_read = TRUE`).
		WithArgs("n-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkAsRead(context.Background(), "n-1", "owner-1"))
	assert.ErrorIs(t, repo.MarkAsRead(context.Background(), "n-1", "intruder"), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
