package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/notify"
	"rentshare-backend/internal/repository/mocks"
)

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		messages := new(mocks.MockMessageRepo)
		profiles := new(mocks.MockProfileRepo)
		notifier := new(MockNotifier)
		svc := NewMessageService(messages, profiles, notifier)

		profiles.On("GetByID", ctx, "u-2").Return(&domain.Profile{ID: "u-2"}, nil)
		messages.On("GetOrCreateThread", ctx, "u-1", "u-2").Return(&domain.Thread{ID: "t-1", UserA: "u-1", UserB: "u-2"}, nil)
		messages.On("AddMessage", ctx, mock.MatchedBy(func(m *domain.Message) bool {
			return m.ThreadID == "t-1" && m.SenderID == "u-1" && m.Text == "Is it free Friday?"
		})).Return(nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n notify.Notice) bool {
			return n.UserID == "u-2" && n.Kind == domain.NotificationNewMessage && n.Attributes["thread_id"] == "t-1"
		})).Return(nil)

		msg, err := svc.Send(ctx, "u-1", "u-2", "  Is it free Friday?  ")
		require.NoError(t, err)
		assert.Equal(t, "t-1", msg.ThreadID)
		messages.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("Rejected input", func(t *testing.T) {
		svc := NewMessageService(new(mocks.MockMessageRepo), new(mocks.MockProfileRepo), nil)

		_, err := svc.Send(ctx, "u-1", "u-2", "   ")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.Send(ctx, "u-1", "u-1", "hello")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.Send(ctx, "u-1", "u-2", strings.Repeat("a", maxMessageLength+1))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Unknown recipient", func(t *testing.T) {
		profiles := new(mocks.MockProfileRepo)
		svc := NewMessageService(new(mocks.MockMessageRepo), profiles, nil)
		profiles.On("GetByID", ctx, "ghost").Return(nil, domain.ErrNotFound)

		_, err := svc.Send(ctx, "u-1", "ghost", "hi")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMessageService_Chat(t *testing.T) {
	ctx := context.Background()
	messages := new(mocks.MockMessageRepo)
	svc := NewMessageService(messages, nil, nil)

	messages.On("FindThread", ctx, "u-1", "u-3").Return(nil, domain.ErrNotFound)
	chat, err := svc.Chat(ctx, "u-1", "u-3")
	require.NoError(t, err)
	assert.Empty(t, chat)

	n, err := svc.MarkRead(ctx, "u-1", "u-3")
	require.NoError(t, err)
	assert.Zero(t, n)

	messages.On("FindThread", ctx, "u-1", "u-2").Return(&domain.Thread{ID: "t-1"}, nil)
	messages.On("ListMessages", ctx, "t-1").Return([]domain.Message{{ID: "m-1"}, {ID: "m-2"}}, nil)
	messages.On("MarkRead", ctx, "t-1", "u-1").Return(int64(2), nil)

	chat, err = svc.Chat(ctx, "u-1", "u-2")
	require.NoError(t, err)
	assert.Len(t, chat, 2)
	n, err = svc.MarkRead(ctx, "u-1", "u-2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
