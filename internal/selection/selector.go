// Package selection implements the click-driven date range picker used when
// a renter chooses booking dates for an item.
package selection

import (
	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/calendar"
)

// Next applies one click to state. Past and booked days are ignored.
// A forward click across a booked day restarts the selection at the click.
func Next(state State, click calendar.Date, idx *availability.Index, today calendar.Date) State {
	if availability.IsPast(click, today) || idx.IsBooked(click) {
		return state
	}

	if state.Kind != PartialStart {
		return Partial(click)
	}

	start := state.Start
	switch calendar.Compare(click, start) {
	case 0:
		return Completed(start, start)
	case -1:
		return Completed(click, start)
	}

	if interiorBooked(start, click, idx) {
		return Partial(click)
	}
	return Completed(start, click)
}

// Revalidate drops a state that could not have been reached by clicks against
// the current bookings, e.g. one held by a client while the range was booked.
func Revalidate(state State, idx *availability.Index, today calendar.Date) State {
	switch state.Kind {
	case PartialStart:
		if availability.IsPast(state.Start, today) || idx.IsBooked(state.Start) {
			return EmptyState()
		}
	case Complete:
		if availability.IsPast(state.Start, today) || idx.Overlaps(state.Start, state.End) {
			return EmptyState()
		}
	}
	return state
}

// interiorBooked checks the days strictly between start and end.
func interiorBooked(start, end calendar.Date, idx *availability.Index) bool {
	from, to := start.AddDays(1), end.AddDays(-1)
	if from.After(to) {
		return false
	}
	return idx.Overlaps(from, to)
}

// Selector holds the selection for one item while its calendar is open.
// It is not safe for concurrent use.
type Selector struct {
	itemID string
	index  *availability.Index
	state  State
}

func NewSelector(itemID string, intervals []availability.Interval) *Selector {
	return &Selector{
		itemID: itemID,
		index:  availability.NewIndex(intervals),
		state:  EmptyState(),
	}
}

// Load replaces the booked intervals. Switching to another item clears the selection.
func (s *Selector) Load(itemID string, intervals []availability.Interval) {
	if itemID != s.itemID {
		s.state = EmptyState()
	}
	s.itemID = itemID
	s.index = availability.NewIndex(intervals)
}

func (s *Selector) Click(d, today calendar.Date) State {
	s.state = Next(s.state, d, s.index, today)
	return s.state
}

func (s *Selector) Reset() {
	s.state = EmptyState()
}

func (s *Selector) State() State {
	return s.state
}

func (s *Selector) ItemID() string {
	return s.itemID
}

func (s *Selector) Index() *availability.Index {
	return s.index
}
