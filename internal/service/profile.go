package service

import (
	"context"
	"strings"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository"
)

// ProfileUpdate carries editable profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	PushToken *string `json:"push_token"`
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profileRepo.GetByID(ctx, userID)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, domain.Validationf("name cannot be empty")
		}
		profile.Name = name
	}
	if update.Phone != nil {
		profile.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*update.AvatarURL)
	}
	if update.PushToken != nil {
		profile.PushToken = *update.PushToken
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
