package selection

import (
	"encoding/json"
	"fmt"

	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/calendar"
)

type Kind int

const (
	Empty Kind = iota
	PartialStart
	Complete
)

func (k Kind) String() string {
	switch k {
	case PartialStart:
		return "partial"
	case Complete:
		return "complete"
	default:
		return "empty"
	}
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "", "empty":
		return Empty, nil
	case "partial":
		return PartialStart, nil
	case "complete":
		return Complete, nil
	}
	return Empty, fmt.Errorf("unknown selection kind %q", s)
}

// State is a value; every click yields a new State rather than mutating one.
// Start is set for PartialStart and Complete, End only for Complete.
type State struct {
	Kind  Kind
	Start calendar.Date
	End   calendar.Date
}

func EmptyState() State {
	return State{Kind: Empty}
}

func Partial(start calendar.Date) State {
	return State{Kind: PartialStart, Start: start}
}

// Completed returns a complete range with start <= end.
func Completed(a, b calendar.Date) State {
	if b.Before(a) {
		a, b = b, a
	}
	return State{Kind: Complete, Start: a, End: b}
}

func (s State) IsComplete() bool { return s.Kind == Complete }

// Range returns the selected interval for a complete state.
func (s State) Range() (availability.Interval, bool) {
	if s.Kind != Complete {
		return availability.Interval{}, false
	}
	return availability.Interval{Start: s.Start, End: s.End}, true
}

// DayCount is the inclusive length of a complete range, 0 otherwise.
func (s State) DayCount() int {
	r, ok := s.Range()
	if !ok {
		return 0
	}
	return r.Days()
}

type stateJSON struct {
	Kind     string         `json:"kind"`
	Start    *calendar.Date `json:"start,omitempty"`
	End      *calendar.Date `json:"end,omitempty"`
	DayCount int            `json:"day_count,omitempty"`
}

func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{Kind: s.Kind.String()}
	switch s.Kind {
	case PartialStart:
		out.Start = &s.Start
	case Complete:
		out.Start, out.End = &s.Start, &s.End
		out.DayCount = s.DayCount()
	}
	return json.Marshal(out)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, err := parseKind(in.Kind)
	if err != nil {
		return err
	}
	switch kind {
	case Empty:
		*s = EmptyState()
	case PartialStart:
		if in.Start == nil {
			return fmt.Errorf("partial selection requires start")
		}
		*s = Partial(*in.Start)
	case Complete:
		if in.Start == nil || in.End == nil {
			return fmt.Errorf("complete selection requires start and end")
		}
		*s = Completed(*in.Start, *in.End)
	}
	return nil
}
