package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-planner/internal/engine"
)

func TestEventsOn_CalendarDayNotWindow(t *testing.T) {
	events := []engine.Event{
		{Title: "Yesterday late", Start: at(2025, 5, 9, 23, 30)},
		{Title: "Midnight", Start: at(2025, 5, 10, 0, 0)},
		{Title: "Last minute", Start: at(2025, 5, 10, 23, 59)},
		{Title: "Tomorrow early", Start: at(2025, 5, 11, 0, 15)},
	}

	got := engine.EventsOn(events, at(2025, 5, 10, 12, 0))

	require.Len(t, got, 2)
	assert.Equal(t, "Midnight", got[0].Title)
	assert.Equal(t, "Last minute", got[1].Title)
}

func TestEventsOn_StableSortAndNoMutation(t *testing.T) {
	events := []engine.Event{
		{Title: "B", Start: at(2025, 5, 10, 9, 0)},
		{Title: "A", Start: at(2025, 5, 10, 8, 0)},
		{Title: "C", Start: at(2025, 5, 10, 9, 0)},
	}
	orig := append([]engine.Event(nil), events...)

	got := engine.EventsOn(events, date(2025, 5, 10))

	assert.Equal(t, []string{"A", "B", "C"}, titles(got), "ties keep input order")
	assert.Equal(t, orig, events, "input must not be reordered")
}

func TestEventsOn_UsesTargetLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2025-05-10 20:00 UTC is 2025-05-11 05:00 in Tokyo.
	events := []engine.Event{{Title: "Call", Start: at(2025, 5, 10, 20, 0)}}

	assert.Len(t, engine.EventsOn(events, time.Date(2025, 5, 11, 0, 0, 0, 0, tokyo)), 1)
	assert.Empty(t, engine.EventsOn(events, time.Date(2025, 5, 10, 0, 0, 0, 0, tokyo)))
}

func TestEventsForDates(t *testing.T) {
	events := []engine.Event{
		{Title: "Mon", Start: at(2025, 5, 12, 9, 0)},
		{Title: "Wed", Start: at(2025, 5, 14, 9, 0)},
	}
	days := engine.NewGrid(time.Sunday).Dates(date(2025, 5, 12), engine.Week)

	cols := engine.EventsForDates(events, days)
	require.Len(t, cols, 7)
	assert.Equal(t, []string{"Mon"}, titles(cols[1]))
	assert.Equal(t, []string{"Wed"}, titles(cols[3]))
	assert.Empty(t, cols[0])

	byDay := engine.EventsByDay(events, days)
	assert.Equal(t, []string{"Wed"}, titles(byDay[date(2025, 5, 14)]))
}

func titles(events []engine.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Title
	}
	return out
}
