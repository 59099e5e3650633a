package service

import (
	"context"
	"strings"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository"
)

type reviewService struct {
	reviews  repository.ReviewRepository
	ledger   repository.BookingLedger
	activity repository.ActivityRepository
}

func NewReviewService(reviews repository.ReviewRepository, ledger repository.BookingLedger, activity repository.ActivityRepository) ReviewService {
	return &reviewService{reviews: reviews, ledger: ledger, activity: activity}
}

func (s *reviewService) Add(ctx context.Context, authorID, itemID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.Validationf("rating must be between 1 and 5")
	}

	rentals, err := s.ledger.ListForUser(ctx, authorID, domain.RoleRenter)
	if err != nil {
		return nil, err
	}
	rented := false
	for _, b := range rentals {
		if b.ItemID == itemID && b.Status == domain.BookingStatusCompleted {
			rented = true
			break
		}
	}
	if !rented {
		return nil, domain.Validationf("only renters with a completed booking can review this item")
	}

	reviewed, err := s.reviews.HasReviewed(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, domain.Validationf("you have already reviewed this item")
	}

	r := &domain.Review{
		ItemID:   itemID,
		AuthorID: authorID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	recordActivity(ctx, s.activity, authorID, domain.ActivityReviewAdded, map[string]any{"item_id": itemID, "rating": rating})
	return r, nil
}

func (s *reviewService) ForItem(ctx context.Context, itemID string) ([]domain.Review, error) {
	return s.reviews.ListByItem(ctx, itemID)
}

func (s *reviewService) Summary(ctx context.Context, itemID string) (*domain.ReviewSummary, error) {
	return s.reviews.Summary(ctx, itemID)
}
