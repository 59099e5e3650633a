// Package availability answers date questions against an item's booked intervals.
package availability

import "rentshare-backend/internal/calendar"

// Interval is a closed date range; both endpoints are booked.
type Interval struct {
	Start calendar.Date `json:"start"`
	End   calendar.Date `json:"end"`
}

// NewInterval builds an interval, swapping the endpoints if given in reverse.
func NewInterval(a, b calendar.Date) Interval {
	if b.Before(a) {
		a, b = b, a
	}
	return Interval{Start: a, End: b}
}

// Contains reports whether d lies within the inclusive bounds.
func (i Interval) Contains(d calendar.Date) bool {
	return !d.Before(i.Start) && !d.After(i.End)
}

// Overlaps reports whether [start, end] shares at least one day with i.
func (i Interval) Overlaps(start, end calendar.Date) bool {
	return !i.Start.After(end) && !i.End.Before(start)
}

// Days is the inclusive length of the interval.
func (i Interval) Days() int {
	return calendar.DaysBetween(i.Start, i.End) + 1
}

func (i Interval) String() string {
	return i.Start.String() + ".." + i.End.String()
}

func IsBooked(d calendar.Date, intervals []Interval) bool {
	for _, iv := range intervals {
		if iv.Contains(d) {
			return true
		}
	}
	return false
}

// IsPast compares dates only; today itself is not past.
func IsPast(d, today calendar.Date) bool {
	return d.Before(today)
}

func Overlaps(start, end calendar.Date, intervals []Interval) bool {
	_, ok := FirstConflict(start, end, intervals)
	return ok
}

// FirstConflict returns the first interval, in list order, overlapping [start, end].
func FirstConflict(start, end calendar.Date, intervals []Interval) (Interval, bool) {
	for _, iv := range intervals {
		if iv.Overlaps(start, end) {
			return iv, true
		}
	}
	return Interval{}, false
}

// Index is an immutable snapshot of one item's booked intervals.
// A nil *Index behaves as an item with nothing booked.
type Index struct {
	intervals []Interval
}

func NewIndex(intervals []Interval) *Index {
	cp := make([]Interval, len(intervals))
	copy(cp, intervals)
	return &Index{intervals: cp}
}

func (x *Index) Intervals() []Interval {
	if x == nil {
		return nil
	}
	cp := make([]Interval, len(x.intervals))
	copy(cp, x.intervals)
	return cp
}

func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.intervals)
}

func (x *Index) IsBooked(d calendar.Date) bool {
	if x == nil {
		return false
	}
	return IsBooked(d, x.intervals)
}

func (x *Index) Overlaps(start, end calendar.Date) bool {
	if x == nil {
		return false
	}
	return Overlaps(start, end, x.intervals)
}

func (x *Index) FirstConflict(start, end calendar.Date) (Interval, bool) {
	if x == nil {
		return Interval{}, false
	}
	return FirstConflict(start, end, x.intervals)
}
