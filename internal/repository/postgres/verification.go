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

const verificationColumns = `id, user_id, id_document_path, selfie_path, status, rejection_reason, reviewed_by, reviewed_at, created_on`

type verificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) repository.VerificationRepository {
	return &verificationRepository{db: db}
}

func scanVerification(s scanner) (*domain.VerificationRequest, error) {
	var v domain.VerificationRequest
	var reviewedAt sql.NullTime
	if err := s.Scan(&v.ID, &v.UserID, &v.IDDocumentPath, &v.SelfiePath, &v.Status, &v.RejectionReason,
		&v.ReviewedBy, &reviewedAt, &v.CreatedOn); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		v.ReviewedAt = &t
	}
	return &v, nil
}

func (r *verificationRepository) Create(ctx context.Context, v *domain.VerificationRequest) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = domain.VerificationPending
	}
	v.CreatedOn = time.Now().UTC()
	logger.DatabaseCall("INSERT", "verification_requests", "userID", v.UserID)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verification_requests (id, user_id, id_document_path, selfie_path, status, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.UserID, v.IDDocumentPath, v.SelfiePath, v.Status, v.CreatedOn)
	logger.DatabaseResult("INSERT", 1, err, "requestID", v.ID)
	return mapError(err, "create verification request")
}

func (r *verificationRepository) GetByID(ctx context.Context, id string) (*domain.VerificationRequest, error) {
	v, err := scanVerification(r.db.QueryRowContext(ctx, `SELECT `+verificationColumns+` FROM verification_requests WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "verification request "+id)
	}
	return v, nil
}

func (r *verificationRepository) List(ctx context.Context, status domain.VerificationStatus) ([]domain.VerificationRequest, error) {
	query := `SELECT ` + verificationColumns + ` FROM verification_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_on DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list verification requests")
	}
	defer rows.Close()

	requests := make([]domain.VerificationRequest, 0)
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *v)
	}
	return requests, rows.Err()
}

func (r *verificationRepository) Update(ctx context.Context, v *domain.VerificationRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE verification_requests SET status = $1, rejection_reason = $2, reviewed_by = $3, reviewed_at = $4 WHERE id = $5`,
		v.Status, v.RejectionReason, v.ReviewedBy, v.ReviewedAt, v.ID)
	return expectRow(res, err, "verification request "+v.ID)
}
