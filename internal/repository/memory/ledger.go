// Package memory provides an in-process booking ledger.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository"
)

// Ledger keeps bookings in insertion order. Each instance is independent;
// construct a fresh one per test or process.
type Ledger struct {
	mu      sync.RWMutex
	records []*domain.Booking
	byID    map[string]*domain.Booking

	items keyedMutex
	now   func() time.Time
	newID func() string
}

var _ repository.BookingLedger = (*Ledger)(nil)

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		byID:  make(map[string]*domain.Booking),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) CreateBooking(ctx context.Context, nb domain.NewBooking) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if nb.ItemID == "" {
		return nil, domain.Validationf("item id is required")
	}
	if nb.Range.End.Before(nb.Range.Start) {
		return nil, domain.Validationf("range end %s is before start %s", nb.Range.End, nb.Range.Start)
	}

	unlock := l.items.Lock(nb.ItemID)
	defer unlock()

	l.mu.RLock()
	for _, b := range l.records {
		if b.ItemID == nb.ItemID && b.Blocks() && b.Range.Overlaps(nb.Range.Start, nb.Range.End) {
			l.mu.RUnlock()
			return nil, &domain.ConflictError{
				ItemID:    nb.ItemID,
				Requested: nb.Range,
				Existing:  b.Range,
				BookingID: b.ID,
			}
		}
	}
	l.mu.RUnlock()

	now := l.now().UTC()
	b := &domain.Booking{
		ID:         l.newID(),
		ItemID:     nb.ItemID,
		RenterID:   nb.RenterID,
		OwnerID:    nb.OwnerID,
		Range:      nb.Range,
		Status:     domain.BookingStatusPending,
		TotalPrice: nb.TotalPrice,
		Delivery:   nb.Delivery,
		CreatedOn:  now,
		UpdatedOn:  now,
	}

	l.mu.Lock()
	l.records = append(l.records, b)
	l.byID[b.ID] = b
	l.mu.Unlock()

	out := *b
	return &out, nil
}

func (l *Ledger) Transition(ctx context.Context, bookingID string, to domain.BookingStatus) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.byID[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}
	if !domain.CanTransition(b.Status, to) {
		return nil, &domain.InvalidTransitionError{BookingID: bookingID, From: b.Status, To: to}
	}
	b.Status = to
	b.UpdatedOn = l.now().UTC()

	out := *b
	return &out, nil
}

func (l *Ledger) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.byID[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}
	out := *b
	return &out, nil
}

func (l *Ledger) ListForItem(ctx context.Context, itemID string) ([]domain.Booking, error) {
	return l.filter(func(b *domain.Booking) bool { return b.ItemID == itemID }), nil
}

func (l *Ledger) ListForUser(ctx context.Context, userID string, role domain.BookingRole) ([]domain.Booking, error) {
	switch role {
	case domain.RoleRenter:
		return l.filter(func(b *domain.Booking) bool { return b.RenterID == userID }), nil
	case domain.RoleOwner:
		return l.filter(func(b *domain.Booking) bool { return b.OwnerID == userID }), nil
	}
	return nil, domain.Validationf("unknown role %q", role)
}

func (l *Ledger) ListActiveEndedBefore(ctx context.Context, day calendar.Date) ([]domain.Booking, error) {
	return l.filter(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusActive && b.Range.End.Before(day)
	}), nil
}

func (l *Ledger) filter(keep func(*domain.Booking) bool) []domain.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, b := range l.records {
		if keep(b) {
			out = append(out, *b)
		}
	}
	return out
}

// keyedMutex hands out one mutex per key and drops it once nobody holds it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
