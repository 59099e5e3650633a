package notify

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository/mocks"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	args := m.Called(ctx, to, toName, subject, plainText, htmlContent)
	return args.Error(0)
}

type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)
	return args.Error(0)
}

type fakeMessaging struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeMessaging) Send(ctx context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	return "projects/p/messages/1", f.err
}

func TestDispatcher_Notify(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Profile{ID: "owner-1", Email: "owner@test.com", Name: "Owner", PushToken: "tok"}

	t.Run("Stores then pushes and emails", func(t *testing.T) {
		notes := new(mocks.MockNotificationRepo)
		profiles := new(mocks.MockProfileRepo)
		email := new(MockEmailSender)
		push := new(MockPushSender)
		d := NewDispatcher(notes, profiles, email, push)

		notes.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == "owner-1" && n.Attributes["type"] == domain.NotificationBookingRequest && n.Attributes["booking_id"] == "b-1"
		})).Return(nil)
		profiles.On("GetByID", ctx, "owner-1").Return(owner, nil)
		push.On("Push", ctx, "tok", "New booking request", "Feb 20 - Feb 23", mock.Anything).Return(errors.New("unregistered"))
		email.On("SendEmail", ctx, "owner@test.com", "Owner", "New booking request", "Feb 20 - Feb 23", "").Return(nil)

		err := d.Notify(ctx, Notice{
			UserID:     "owner-1",
			Kind:       domain.NotificationBookingRequest,
			Title:      "New booking request",
			Message:    "Feb 20 - Feb 23",
			Attributes: map[string]string{"booking_id": "b-1"},
		})
		assert.NoError(t, err)
		notes.AssertExpectations(t)
		push.AssertExpectations(t)
		email.AssertExpectations(t)
	})

	t.Run("Messages skip email", func(t *testing.T) {
		notes := new(mocks.MockNotificationRepo)
		profiles := new(mocks.MockProfileRepo)
		email := new(MockEmailSender)
		push := new(MockPushSender)
		d := NewDispatcher(notes, profiles, email, push)

		notes.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		profiles.On("GetByID", ctx, "owner-1").Return(owner, nil)
		push.On("Push", ctx, "tok", "New message", "hi", mock.Anything).Return(nil)

		require.NoError(t, d.Notify(ctx, Notice{UserID: "owner-1", Kind: domain.NotificationNewMessage, Title: "New message", Message: "hi"}))
		email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Store failure is returned", func(t *testing.T) {
		notes := new(mocks.MockNotificationRepo)
		profiles := new(mocks.MockProfileRepo)
		d := NewDispatcher(notes, profiles, nil, nil)

		notes.On("Create", ctx, mock.Anything).Return(errors.New("db down"))
		err := d.Notify(ctx, Notice{UserID: "owner-1", Kind: domain.NotificationVerification})
		assert.Error(t, err)
		profiles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("No channels skips profile lookup", func(t *testing.T) {
		notes := new(mocks.MockNotificationRepo)
		profiles := new(mocks.MockProfileRepo)
		d := NewDispatcher(notes, profiles, nil, nil)

		notes.On("Create", ctx, mock.Anything).Return(nil)
		require.NoError(t, d.Notify(ctx, Notice{UserID: "owner-1", Kind: domain.NotificationBookingAccepted}))
		profiles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestSendGridSender(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled without key", func(t *testing.T) {
		s := NewSendGridSender("", "noreply@rentshare.test", "Rentshare")
		called := false
		s.send = func(*mail.SGMailV3) (int, string, error) { called = true; return 202, "", nil }
		assert.NoError(t, s.SendEmail(ctx, "a@test.com", "A", "Hi", "Body", ""))
		assert.False(t, called)
	})

	t.Run("Builds message", func(t *testing.T) {
		s := NewSendGridSender("SG.key", "noreply@rentshare.test", "Rentshare")
		var got *mail.SGMailV3
		s.send = func(m *mail.SGMailV3) (int, string, error) { got = m; return 202, "", nil }

		require.NoError(t, s.SendEmail(ctx, "a@test.com", "A", "Booking accepted", "See you soon", "<p>See you soon</p>"))
		require.NotNil(t, got)
		assert.Equal(t, "Booking accepted", got.Subject)
		assert.Equal(t, "noreply@rentshare.test", got.From.Address)
		require.Len(t, got.Personalizations, 1)
		assert.Equal(t, "a@test.com", got.Personalizations[0].To[0].Address)
	})

	t.Run("Error status", func(t *testing.T) {
		s := NewSendGridSender("SG.key", "noreply@rentshare.test", "Rentshare")
		s.send = func(*mail.SGMailV3) (int, string, error) { return 401, "unauthorized", nil }
		err := s.SendEmail(ctx, "a@test.com", "A", "Hi", "Body", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})
}

func TestFirebasePusher(t *testing.T) {
	fake := &fakeMessaging{}
	p := &FirebasePusher{client: fake}

	require.NoError(t, p.Push(context.Background(), "tok", "Title", "Body", map[string]string{"type": "NEW_MESSAGE"}))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "tok", fake.sent[0].Token)
	assert.Equal(t, "Title", fake.sent[0].Notification.Title)
	assert.Equal(t, "NEW_MESSAGE", fake.sent[0].Data["type"])

	fake.err = errors.New("invalid token")
	assert.Error(t, p.Push(context.Background(), "bad", "Title", "Body", nil))
}
