package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

const profileColumns = `id, email, name, phone, avatar_url, verification_status, stripe_customer_id, push_token, created_on, updated_on`

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	if p.VerificationStatus == "" {
		p.VerificationStatus = domain.VerificationUnverified
	}
	now := time.Now().UTC()
	p.CreatedOn, p.UpdatedOn = now, now
	logger.DatabaseCall("INSERT", "profiles", "profileID", p.ID)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Email, p.Name, p.Phone, p.AvatarURL, p.VerificationStatus, p.StripeCustomerID, p.PushToken, p.CreatedOn, p.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "profileID", p.ID)
	return mapError(err, "create profile")
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.Name, &p.Phone, &p.AvatarURL, &p.VerificationStatus, &p.StripeCustomerID, &p.PushToken, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, mapError(err, "profile "+id)
	}
	return &p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	p.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET name = $1, phone = $2, avatar_url = $3, push_token = $4, updated_on = $5 WHERE id = $6`,
		p.Name, p.Phone, p.AvatarURL, p.PushToken, p.UpdatedOn, p.ID)
	return expectRow(res, err, "profile "+p.ID)
}

func (r *profileRepository) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET stripe_customer_id = $1, updated_on = $2 WHERE id = $3`, customerID, time.Now().UTC(), id)
	return expectRow(res, err, "profile "+id)
}

func (r *profileRepository) SetVerificationStatus(ctx context.Context, id string, status domain.VerificationStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET verification_status = $1, updated_on = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	return expectRow(res, err, "profile "+id)
}
