package selection

import (
	"encoding/json"
	"testing"

	"rentshare-backend/internal/availability"
	"rentshare-backend/internal/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(m, day int) calendar.Date { return calendar.New(2026, m, day) }

var (
	today  = d(2, 1)
	booked = []availability.Interval{availability.NewInterval(d(2, 24), d(2, 28))}
)

func TestNext_IgnoresUnavailableDays(t *testing.T) {
	idx := availability.NewIndex(booked)
	states := []State{EmptyState(), Partial(d(2, 10)), Completed(d(2, 10), d(2, 12))}

	for _, st := range states {
		t.Run(st.Kind.String(), func(t *testing.T) {
			for day := 24; day <= 28; day++ {
				assert.Equal(t, st, Next(st, d(2, day), idx, today))
			}
			assert.Equal(t, st, Next(st, d(1, 31), idx, today), "past day")
		})
	}
}

func TestNext_StartsNewSelection(t *testing.T) {
	idx := availability.NewIndex(booked)

	assert.Equal(t, Partial(d(2, 5)), Next(EmptyState(), d(2, 5), idx, today))
	assert.Equal(t, Partial(d(2, 20)), Next(Completed(d(2, 5), d(2, 8)), d(2, 20), idx, today))
}

func TestNext_FromPartialStart(t *testing.T) {
	idx := availability.NewIndex(booked)

	t.Run("Same day", func(t *testing.T) {
		got := Next(Partial(d(2, 10)), d(2, 10), idx, today)
		assert.Equal(t, Completed(d(2, 10), d(2, 10)), got)
		assert.Equal(t, 1, got.DayCount())
	})

	t.Run("Earlier click normalizes", func(t *testing.T) {
		got := Next(Partial(d(2, 14)), d(2, 10), idx, today)
		assert.Equal(t, State{Kind: Complete, Start: d(2, 10), End: d(2, 14)}, got)
		assert.Equal(t, 5, got.DayCount())
	})

	t.Run("Later click completes", func(t *testing.T) {
		got := Next(Partial(d(2, 10)), d(2, 14), idx, today)
		assert.Equal(t, Completed(d(2, 10), d(2, 14)), got)
	})

	t.Run("Booked interior restarts", func(t *testing.T) {
		got := Next(Partial(d(2, 20)), d(3, 1), idx, today)
		assert.Equal(t, Partial(d(3, 1)), got)
	})

	t.Run("Adjacent endpoints have no interior", func(t *testing.T) {
		got := Next(Partial(d(2, 22)), d(2, 23), idx, today)
		assert.Equal(t, Completed(d(2, 22), d(2, 23)), got)
	})

	t.Run("Today is selectable", func(t *testing.T) {
		got := Next(EmptyState(), today, idx, today)
		assert.Equal(t, Partial(today), got)
	})
}

func TestRevalidate(t *testing.T) {
	idx := availability.NewIndex(booked)

	tests := []struct {
		name  string
		state State
		want  State
	}{
		{"Empty", EmptyState(), EmptyState()},
		{"Free start kept", Partial(d(2, 10)), Partial(d(2, 10))},
		{"Booked start dropped", Partial(d(2, 26)), EmptyState()},
		{"Past start dropped", Partial(d(1, 20)), EmptyState()},
		{"Free range kept", Completed(d(2, 10), d(2, 23)), Completed(d(2, 10), d(2, 23))},
		{"Range ending on booking dropped", Completed(d(2, 20), d(2, 24)), EmptyState()},
		{"Range starting in past dropped", Completed(d(1, 30), d(2, 3)), EmptyState()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Revalidate(tt.state, idx, today))
		})
	}
}

func TestSelector(t *testing.T) {
	s := NewSelector("item-1", booked)
	assert.Equal(t, EmptyState(), s.State())

	s.Click(d(2, 10), today)
	st := s.Click(d(2, 12), today)
	require.True(t, st.IsComplete())

	t.Run("Reloading the same item keeps the selection", func(t *testing.T) {
		s.Load("item-1", append(booked, availability.NewInterval(d(3, 5), d(3, 6))))
		assert.Equal(t, st, s.State())
		assert.True(t, s.Index().IsBooked(d(3, 5)))
	})

	t.Run("Switching item resets", func(t *testing.T) {
		s.Load("item-2", nil)
		assert.Equal(t, EmptyState(), s.State())
		assert.Equal(t, "item-2", s.ItemID())
		assert.False(t, s.Index().IsBooked(d(2, 26)))
	})

	t.Run("Reset", func(t *testing.T) {
		s.Click(d(2, 10), today)
		s.Reset()
		assert.Equal(t, EmptyState(), s.State())
	})
}

func TestStateJSON(t *testing.T) {
	data, err := json.Marshal(Completed(d(2, 14), d(2, 10)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"complete","start":"2026-02-10","end":"2026-02-14","day_count":5}`, string(data))

	var st State
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"partial","start":"2026-02-10"}`), &st))
	assert.Equal(t, Partial(d(2, 10)), st)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &st))
	assert.Equal(t, EmptyState(), st)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"complete","start":"2026-02-10"}`), &st))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"bogus"}`), &st))
}
