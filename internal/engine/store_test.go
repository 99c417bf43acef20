package engine_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-planner/internal/engine"
)

func TestStore_AddAssignsIDAndKeepsOrder(t *testing.T) {
	s := engine.NewStore(at(2025, 3, 10, 15, 0))

	a, err := s.Add(timed("A", at(2025, 3, 10, 9, 0), at(2025, 3, 10, 10, 0)))
	require.NoError(t, err)
	b, err := s.Add(timed("B", at(2025, 3, 9, 9, 0), at(2025, 3, 9, 10, 0)))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "A", events[0].Title, "insertion order, not start order")
	assert.Equal(t, "B", events[1].Title)
	assert.Equal(t, date(2025, 3, 10), s.SelectedDate())
}

func TestStore_AddValidation(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))

	_, err := s.Add(timed("   ", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))
	assert.ErrorIs(t, err, engine.ErrTitleRequired)

	_, err = s.Add(timed("Backwards", at(2025, 1, 1, 10, 0), at(2025, 1, 1, 9, 0)))
	assert.ErrorIs(t, err, engine.ErrEndBeforeStart)

	assert.Zero(t, s.Len())
}

func TestStore_AddNormalizes(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))

	ev, err := s.Add(engine.Draft{
		Title:    "  Holiday ",
		Start:    at(2025, 1, 1, 8, 0),
		End:      at(2025, 1, 3, 8, 0),
		Location: "   ",
		Notes:    " bring snacks ",
		Color:    engine.Color(42),
		AllDay:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Holiday", ev.Title)
	assert.Equal(t, ev.Start, ev.End, "all-day events collapse to their start")
	assert.Empty(t, ev.Location, "blank location is stored as absent")
	assert.Equal(t, "bring snacks", ev.Notes)
	assert.Equal(t, engine.DefaultColor, ev.Color)
}

func TestStore_UpdateKeepsIDAndPosition(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	first, _ := s.Add(timed("First", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))
	_, _ = s.Add(timed("Second", at(2025, 1, 1, 11, 0), at(2025, 1, 1, 12, 0)))

	d := first.Draft()
	d.Title = "First (moved)"
	d.Color = engine.ColorRed
	ok, err := s.Update(first.ID, d)
	require.NoError(t, err)
	assert.True(t, ok)

	events := s.Events()
	assert.Equal(t, first.ID, events[0].ID)
	assert.Equal(t, "First (moved)", events[0].Title)
	assert.Equal(t, engine.ColorRed, events[0].Color)
}

func TestStore_UpdateUnknownIDIsNoOp(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	_, _ = s.Add(timed("Keep", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))
	before := s.Snapshot()

	calls := 0
	cancel := s.Subscribe(func(engine.Snapshot) { calls++ })
	defer cancel()

	ok, err := s.Update(uuid.New(), timed("Other", at(2025, 1, 2, 9, 0), at(2025, 1, 2, 10, 0)))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, s.Snapshot(), "store must be unchanged field-for-field")
	assert.Zero(t, calls, "no notification for a no-op")
}

func TestStore_UpdateInvalidLeavesStore(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	ev, _ := s.Add(timed("Keep", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))

	ok, err := s.Update(ev.ID, timed("", ev.Start, ev.End))
	assert.ErrorIs(t, err, engine.ErrTitleRequired)
	assert.False(t, ok)

	got, found := s.Get(ev.ID)
	require.True(t, found)
	assert.Equal(t, "Keep", got.Title)
}

func TestStore_Remove(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	a, _ := s.Add(timed("A", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))
	b, _ := s.Add(timed("B", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))
	c, _ := s.Add(timed("C", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))

	assert.True(t, s.Remove(b.ID))
	assert.False(t, s.Remove(b.ID), "second removal is a no-op")
	assert.False(t, s.Remove(uuid.New()))

	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, a.ID, events[0].ID)
	assert.Equal(t, c.ID, events[1].ID)
}

func TestStore_EventsReturnsCopy(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	_, _ = s.Add(timed("A", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))

	events := s.Events()
	events[0].Title = "mutated"

	assert.Equal(t, "A", s.Events()[0].Title)
}

func TestStore_SelectAndEventsOn(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	_, _ = s.Add(timed("Late", at(2025, 1, 2, 18, 0), at(2025, 1, 2, 19, 0)))
	_, _ = s.Add(timed("Early", at(2025, 1, 2, 8, 0), at(2025, 1, 2, 9, 0)))
	_, _ = s.Add(timed("Other day", at(2025, 1, 3, 8, 0), at(2025, 1, 3, 9, 0)))

	s.Select(at(2025, 1, 2, 13, 45))
	assert.Equal(t, date(2025, 1, 2), s.SelectedDate(), "selection is normalized to midnight")

	on := s.EventsOn(s.SelectedDate())
	require.Len(t, on, 2)
	assert.Equal(t, "Early", on[0].Title)
	assert.Equal(t, "Late", on[1].Title)
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))

	var got []engine.Snapshot
	cancel := s.Subscribe(func(snap engine.Snapshot) { got = append(got, snap) })

	_, _ = s.Add(timed("A", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))
	s.Select(date(2025, 1, 5))
	s.Select(date(2025, 1, 5))

	require.Len(t, got, 2, "re-selecting the same day does not notify")
	assert.Len(t, got[0].Events, 1)
	assert.Equal(t, date(2025, 1, 5), got[1].SelectedDate)

	cancel()
	_, _ = s.Add(timed("B", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))
	assert.Len(t, got, 2)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	done := make(chan int, 1)
	s.Subscribe(func(engine.Snapshot) { done <- s.Len() })

	_, _ = s.Add(timed("A", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))

	select {
	case n := <-done:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("subscriber deadlocked on the store lock")
	}
}

func TestStore_AddAll(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	calls := 0
	s.Subscribe(func(engine.Snapshot) { calls++ })

	n := s.AddAll([]engine.Draft{
		timed("A", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)),
		timed("", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)),
		timed("C", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)),
	})

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, calls)
}

func TestNewStoreFromSnapshot(t *testing.T) {
	id := uuid.New()
	ev := engine.Event{ID: id, Title: "A", Start: at(2025, 1, 1, 9, 0), End: at(2025, 1, 1, 10, 0)}

	s, err := engine.NewStoreFromSnapshot(engine.Snapshot{
		Events:       []engine.Event{ev},
		SelectedDate: at(2025, 1, 1, 12, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []engine.Event{ev}, s.Events())
	assert.Equal(t, date(2025, 1, 1), s.SelectedDate())

	_, err = engine.NewStoreFromSnapshot(engine.Snapshot{Events: []engine.Event{ev, ev}})
	assert.ErrorIs(t, err, engine.ErrDuplicateID)

	bad := ev
	bad.ID = uuid.New()
	bad.End = bad.Start.Add(-time.Minute)
	_, err = engine.NewStoreFromSnapshot(engine.Snapshot{Events: []engine.Event{bad}})
	assert.ErrorIs(t, err, engine.ErrEndBeforeStart)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := engine.NewStore(date(2025, 1, 1))
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ev, err := s.Add(timed("x", at(2025, 1, 1, 9, 0), at(2025, 1, 1, 10, 0)))
			if err == nil {
				s.Remove(ev.ID)
			}
		}()
		go func() {
			defer wg.Done()
			_ = s.EventsOn(date(2025, 1, 1))
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	assert.Zero(t, s.Len())
}
