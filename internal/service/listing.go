package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository"
)

const maxBrowseLimit = 100

type listingService struct {
	listings repository.ListingRepository
	activity repository.ActivityRepository
}

func NewListingService(listings repository.ListingRepository, activity repository.ActivityRepository) ListingService {
	return &listingService{listings: listings, activity: activity}
}

func (s *listingService) Categories() []string {
	out := make([]string, len(domain.Categories))
	copy(out, domain.Categories)
	return out
}

func validateListing(l *domain.Listing) error {
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return domain.Validationf("title is required")
	}
	if l.DailyRate.IsNegative() {
		return domain.Validationf("daily rate cannot be negative")
	}
	if !domain.IsCategory(l.Category) {
		return domain.Validationf("unknown category %q", l.Category)
	}
	return nil
}

func (s *listingService) Create(ctx context.Context, ownerID string, l *domain.Listing) (*domain.Listing, error) {
	if err := validateListing(l); err != nil {
		return nil, err
	}
	l.ID = ""
	l.OwnerID = ownerID
	l.Status = domain.ListingStatusActive
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}
	recordActivity(ctx, s.activity, ownerID, domain.ActivityListingCreated, map[string]any{"item_id": l.ID, "title": l.Title})
	return l, nil
}

// owned loads a listing and checks that ownerID may change it.
func (s *listingService) owned(ctx context.Context, ownerID, id string) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != ownerID {
		return nil, fmt.Errorf("listing %s: %w", id, domain.ErrForbidden)
	}
	return l, nil
}

func (s *listingService) Update(ctx context.Context, ownerID string, l *domain.Listing) (*domain.Listing, error) {
	current, err := s.owned(ctx, ownerID, l.ID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.ListingStatusRemoved {
		return nil, domain.Validationf("removed listings cannot be edited")
	}
	if err := validateListing(l); err != nil {
		return nil, err
	}
	current.Title = l.Title
	current.Description = l.Description
	current.Category = l.Category
	current.DailyRate = l.DailyRate
	current.Location = l.Location
	current.ImageURL = l.ImageURL
	current.DeliveryAvailable = l.DeliveryAvailable
	if err := s.listings.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *listingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.ListingStatusRemoved {
		return nil, fmt.Errorf("listing %s: %w", id, domain.ErrNotFound)
	}
	return l, nil
}

func (s *listingService) Browse(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	if filter.Category != "" && !domain.IsCategory(filter.Category) {
		return nil, domain.Validationf("unknown category %q", filter.Category)
	}
	switch filter.Sort {
	case "", domain.SortNewest, domain.SortPriceLow, domain.SortPriceHigh, domain.SortRating:
	default:
		return nil, domain.Validationf("unknown sort %q", filter.Sort)
	}
	if filter.Limit <= 0 || filter.Limit > maxBrowseLimit {
		filter.Limit = maxBrowseLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.listings.Browse(ctx, filter)
}

func (s *listingService) ListMine(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	return s.listings.ListByOwner(ctx, ownerID, "")
}

func (s *listingService) ListRemoved(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	return s.listings.ListByOwner(ctx, ownerID, domain.ListingStatusRemoved)
}

func (s *listingService) Remove(ctx context.Context, ownerID, id string) error {
	l, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if l.Status == domain.ListingStatusRemoved {
		return nil
	}
	if err := s.listings.SetStatus(ctx, id, domain.ListingStatusRemoved); err != nil {
		return err
	}
	recordActivity(ctx, s.activity, ownerID, domain.ActivityListingRemoved, map[string]any{"item_id": id})
	return nil
}

func (s *listingService) TogglePause(ctx context.Context, ownerID, id string) (*domain.Listing, error) {
	l, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	var next domain.ListingStatus
	var action string
	switch l.Status {
	case domain.ListingStatusActive:
		next, action = domain.ListingStatusPaused, domain.ActivityListingPaused
	case domain.ListingStatusPaused:
		next, action = domain.ListingStatusActive, domain.ActivityListingResumed
	default:
		return nil, domain.Validationf("removed listings cannot be paused")
	}
	if err := s.listings.SetStatus(ctx, id, next); err != nil {
		return nil, err
	}
	l.Status = next
	recordActivity(ctx, s.activity, ownerID, action, map[string]any{"item_id": id})
	return l, nil
}

func (s *listingService) Save(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.listings.Save(ctx, userID, id)
}

func (s *listingService) Unsave(ctx context.Context, userID, id string) error {
	err := s.listings.Unsave(ctx, userID, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (s *listingService) ListSaved(ctx context.Context, userID string) ([]domain.Listing, error) {
	return s.listings.ListSaved(ctx, userID)
}
