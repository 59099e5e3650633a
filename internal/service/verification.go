package service

import (
	"context"
	"strings"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/notify"
	"rentshare-backend/internal/repository"
)

type verificationService struct {
	requests repository.VerificationRepository
	profiles repository.ProfileRepository
	activity repository.ActivityRepository
	notifier Notifier
	now      func() time.Time
}

func NewVerificationService(
	requests repository.VerificationRepository,
	profiles repository.ProfileRepository,
	activity repository.ActivityRepository,
	notifier Notifier,
) VerificationService {
	return &verificationService{requests: requests, profiles: profiles, activity: activity, notifier: notifier, now: time.Now}
}

func (s *verificationService) Submit(ctx context.Context, userID, idDocumentPath, selfiePath string) (*domain.VerificationRequest, error) {
	idDocumentPath = strings.TrimSpace(idDocumentPath)
	selfiePath = strings.TrimSpace(selfiePath)
	if idDocumentPath == "" || selfiePath == "" {
		return nil, domain.Validationf("both an ID document and a selfie are required")
	}
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.VerificationStatus.CanSubmit() {
		return nil, domain.Validationf("verification is already %s", p.VerificationStatus)
	}

	req := &domain.VerificationRequest{
		UserID:         userID,
		IDDocumentPath: idDocumentPath,
		SelfiePath:     selfiePath,
		Status:         domain.VerificationPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	if err := s.profiles.SetVerificationStatus(ctx, userID, domain.VerificationPending); err != nil {
		return nil, err
	}
	recordActivity(ctx, s.activity, userID, domain.ActivityVerificationSent, map[string]any{"request_id": req.ID})
	return req, nil
}

func (s *verificationService) Status(ctx context.Context, userID string) (domain.VerificationStatus, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if p.VerificationStatus == "" {
		return domain.VerificationUnverified, nil
	}
	return p.VerificationStatus, nil
}

func (s *verificationService) ListRequests(ctx context.Context, pendingOnly bool) ([]domain.VerificationRequest, error) {
	if pendingOnly {
		return s.requests.List(ctx, domain.VerificationPending)
	}
	return s.requests.List(ctx, "")
}

func (s *verificationService) Review(ctx context.Context, adminID, requestID string, decision domain.VerificationDecision, reason string) (*domain.VerificationRequest, error) {
	reason = strings.TrimSpace(reason)
	switch decision {
	case domain.DecisionVerified:
		reason = ""
	case domain.DecisionRejected:
		if reason == "" {
			return nil, domain.Validationf("a rejection reason is required")
		}
	default:
		return nil, domain.Validationf("decision must be verified or rejected")
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.VerificationPending {
		return nil, domain.Validationf("request %s was already reviewed", requestID)
	}

	now := s.now().UTC()
	req.Status = domain.VerificationStatus(decision)
	req.RejectionReason = reason
	req.ReviewedBy = adminID
	req.ReviewedAt = &now
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, err
	}
	if err := s.profiles.SetVerificationStatus(ctx, req.UserID, req.Status); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.activity, adminID, domain.ActivityVerificationReview, map[string]any{
		"request_id": req.ID,
		"user_id":    req.UserID,
		"decision":   string(decision),
	})
	msg := "Your identity has been verified."
	if decision == domain.DecisionRejected {
		msg = "Your identity verification was rejected: " + reason
	}
	notifyUser(ctx, s.notifier, notify.Notice{
		UserID:     req.UserID,
		Kind:       domain.NotificationVerification,
		Title:      "Identity verification update",
		Message:    msg,
		Attributes: map[string]string{"request_id": req.ID, "status": string(req.Status)},
	})
	return req, nil
}
