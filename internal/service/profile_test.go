package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository/mocks"
)

func strPtr(s string) *string { return &s }

func TestProfileService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial update", func(t *testing.T) {
		repo := new(mocks.MockProfileRepo)
		svc := NewProfileService(repo)
		repo.On("GetByID", ctx, "u-1").Return(&domain.Profile{ID: "u-1", Name: "Old", Phone: "555"}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *domain.Profile) bool {
			return p.Name == "New" && p.Phone == "555" && p.PushToken == "tok"
		})).Return(nil)

		p, err := svc.UpdateProfile(ctx, "u-1", ProfileUpdate{Name: strPtr(" New "), PushToken: strPtr("tok")})
		require.NoError(t, err)
		assert.Equal(t, "New", p.Name)
	})

	t.Run("Blank name", func(t *testing.T) {
		repo := new(mocks.MockProfileRepo)
		svc := NewProfileService(repo)
		repo.On("GetByID", ctx, "u-1").Return(&domain.Profile{ID: "u-1", Name: "Old"}, nil)

		_, err := svc.UpdateProfile(ctx, "u-1", ProfileUpdate{Name: strPtr("  ")})
		assert.ErrorIs(t, err, domain.ErrValidation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_GetNotifications(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepo)
	svc := NewNotificationService(repo)

	repo.On("List", ctx, "u-1", int32(10), int32(20)).Return([]domain.Notification{{ID: "n-1"}}, int32(21), nil)
	repo.On("List", ctx, "u-1", int32(defaultPageSize), int32(0)).Return([]domain.Notification{}, int32(0), nil)

	notes, total, err := svc.GetNotifications(ctx, "u-1", 3, 10)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, int32(21), total)

	_, _, err = svc.GetNotifications(ctx, "u-1", 0, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestActivityService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockActivityRepo)
	svc := NewActivityService(repo)
	repo.On("ListByUser", ctx, "u-1", 50).Return([]domain.Activity{{ID: 1}}, nil)

	got, err := svc.List(ctx, "u-1", -5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
