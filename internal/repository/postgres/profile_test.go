package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentshare-backend/internal/domain"
)

func TestProfileRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProfileRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, email, name, phone, avatar_url, verification_status, stripe_customer_id, push_token, created_on, updated_on FROM profiles WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "avatar_url", "verification_status", "stripe_customer_id", "push_token", "created_on", "updated_on"}).
			AddRow("user-1", "u@example.com", "Uma", "", "", "pending", "cus_123", "", fixedNow, fixedNow))
	mock.ExpectExec(`UPDATE profiles SET stripe_customer_id = \$1`).
		WithArgs("cus_456", sqlmock.AnyArg(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE profiles SET verification_status = \$1`).
		WithArgs(domain.VerificationVerified, sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	p, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, p.VerificationStatus)
	assert.Equal(t, "cus_123", p.StripeCustomerID)

	require.NoError(t, repo.SetStripeCustomerID(ctx, "user-1", "cus_456"))
	assert.ErrorIs(t, repo.SetVerificationStatus(ctx, "ghost", domain.VerificationVerified), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReviewRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO reviews`).
		WithArgs(sqlmock.AnyArg(), "l-1", "renter-1", 5, "Great", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO reviews`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\)::float8, count\(\*\) FROM reviews WHERE item_id = \$1`).
		WithArgs("l-1").
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.5, 2))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("renter-1", "l-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, repo.Create(ctx, &domain.Review{ItemID: "l-1", AuthorID: "renter-1", Rating: 5, Comment: "Great"}))
	err = repo.Create(ctx, &domain.Review{ItemID: "l-1", AuthorID: "renter-1", Rating: 4})
	assert.ErrorIs(t, err, domain.ErrValidation)

	s, err := repo.Summary(ctx, "l-1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 4.5, s.Average, 0.001)

	reviewed, err := repo.HasReviewed(ctx, "renter-1", "l-1")
	require.NoError(t, err)
	assert.True(t, reviewed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	columns := []string{"id", "user_id", "id_document_path", "selfie_path", "status", "rejection_reason", "reviewed_by", "reviewed_at", "created_on"}
	mock.ExpectQuery(`FROM verification_requests WHERE status = \$1 ORDER BY created_on DESC`).
		WithArgs(domain.VerificationPending).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("v-1", "user-1", "docs/id.png", "docs/selfie.png", "pending", "", "", nil, fixedNow))
	mock.ExpectQuery(`FROM verification_requests ORDER BY created_on DESC`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("v-2", "user-2", "a", "b", "rejected", "blurry", "admin-1", fixedNow, fixedNow))
	mock.ExpectExec(`UPDATE verification_requests SET status = \$1`).
		WithArgs(domain.VerificationVerified, "", "admin-1", fixedNow, "v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	pending, err := repo.List(ctx, domain.VerificationPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].ReviewedAt)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].ReviewedAt)
	assert.Equal(t, "blurry", all[0].RejectionReason)

	reviewedAt := fixedNow
	req := pending[0]
	req.Status = domain.VerificationVerified
	req.ReviewedBy = "admin-1"
	req.ReviewedAt = &reviewedAt
	require.NoError(t, repo.Update(ctx, &req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewActivityRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO activity_log .* RETURNING id`).
		WithArgs("user-1", domain.ActivityBookingRequested, []byte(`{"booking_id":"b-1"}`), fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`FROM activity_log\s+WHERE user_id = \$1 ORDER BY created_on DESC, id DESC LIMIT \$2`).
		WithArgs("user-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "details", "created_on"}).
			AddRow(7, "user-1", domain.ActivityBookingRequested, []byte(`{"booking_id":"b-1"}`), fixedNow))

	a := &domain.Activity{UserID: "user-1", Action: domain.ActivityBookingRequested,
		Details: map[string]any{"booking_id": "b-1"}, CreatedOn: fixedNow}
	require.NoError(t, repo.Log(ctx, a))
	assert.Equal(t, int64(7), a.ID)

	entries, err := repo.ListByUser(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b-1", entries[0].Details["booking_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
