// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
)

// MockBookingLedger
type MockBookingLedger struct {
	mock.Mock
}

func (m *MockBookingLedger) CreateBooking(ctx context.Context, nb domain.NewBooking) (*domain.Booking, error) {
	args := m.Called(ctx, nb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingLedger) Transition(ctx context.Context, bookingID string, to domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingLedger) ListForItem(ctx context.Context, itemID string) ([]domain.Booking, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingLedger) ListForUser(ctx context.Context, userID string, role domain.BookingRole) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, role)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingLedger) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingLedger) ListActiveEndedBefore(ctx context.Context, day calendar.Date) ([]domain.Booking, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) Update(ctx context.Context, l *domain.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockListingRepo) SetStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockListingRepo) Browse(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingRepo) ListByOwner(ctx context.Context, ownerID string, status domain.ListingStatus) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingRepo) Save(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockListingRepo) Unsave(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockListingRepo) ListSaved(ctx context.Context, userID string) ([]domain.Listing, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

// MockMessageRepo
type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) GetOrCreateThread(ctx context.Context, userA, userB string) (*domain.Thread, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thread), args.Error(1)
}
func (m *MockMessageRepo) FindThread(ctx context.Context, userA, userB string) (*domain.Thread, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thread), args.Error(1)
}
func (m *MockMessageRepo) AddMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockMessageRepo) ListThreads(ctx context.Context, userID string) ([]domain.ThreadSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ThreadSummary), args.Error(1)
}
func (m *MockMessageRepo) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	args := m.Called(ctx, threadID)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepo) MarkRead(ctx context.Context, threadID, readerID string) (int64, error) {
	args := m.Called(ctx, threadID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReviewRepo) ListByItem(ctx context.Context, itemID string) ([]domain.Review, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]domain.Review), args.Error(1)
}
func (m *MockReviewRepo) Summary(ctx context.Context, itemID string) (*domain.ReviewSummary, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewSummary), args.Error(1)
}
func (m *MockReviewRepo) HasReviewed(ctx context.Context, authorID, itemID string) (bool, error) {
	args := m.Called(ctx, authorID, itemID)
	return args.Bool(0), args.Error(1)
}

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProfileRepo) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	args := m.Called(ctx, id, customerID)
	return args.Error(0)
}
func (m *MockProfileRepo) SetVerificationStatus(ctx context.Context, id string, status domain.VerificationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockVerificationRepo
type MockVerificationRepo struct {
	mock.Mock
}

func (m *MockVerificationRepo) Create(ctx context.Context, req *domain.VerificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockVerificationRepo) GetByID(ctx context.Context, id string) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}
func (m *MockVerificationRepo) List(ctx context.Context, status domain.VerificationStatus) ([]domain.VerificationRequest, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.VerificationRequest), args.Error(1)
}
func (m *MockVerificationRepo) Update(ctx context.Context, req *domain.VerificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Log(ctx context.Context, a *domain.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockActivityRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Activity), args.Error(1)
}
