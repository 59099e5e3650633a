package domain

import "time"

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// CanSubmit reports whether a user in this state may send new documents.
func (s VerificationStatus) CanSubmit() bool {
	return s == "" || s == VerificationUnverified || s == VerificationRejected
}

const RoleAdmin = "admin"

// Profile is the marketplace view of an account. Accounts themselves are
// issued by the identity provider; the profile shares its ID.
type Profile struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	Name               string             `json:"name"`
	Phone              string             `json:"phone,omitempty"`
	AvatarURL          string             `json:"avatar_url,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	StripeCustomerID   string             `json:"-"`
	PushToken          string             `json:"-"`
	CreatedOn          time.Time          `json:"created_on"`
	UpdatedOn          time.Time          `json:"updated_on"`
}

type VerificationDecision string

const (
	DecisionVerified VerificationDecision = "verified"
	DecisionRejected VerificationDecision = "rejected"
)

type VerificationRequest struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	IDDocumentPath  string             `json:"id_document_path"`
	SelfiePath      string             `json:"selfie_path"`
	Status          VerificationStatus `json:"status"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	ReviewedBy      string             `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewed_at,omitempty"`
	CreatedOn       time.Time          `json:"created_on"`
}
