package engine

import (
	"sort"
	"time"
)

// EventsOn returns the events whose start falls on day's calendar day,
// stable-sorted by start. The input slice is not modified.
func EventsOn(events []Event, day time.Time) []Event {
	var out []Event
	for _, ev := range events {
		// Calendar-day match in day's location, not a 24h window.
		if SameDay(ev.Start, day) {
			out = append(out, ev)
		}
	}
	sortByStart(out)
	return out
}

// EventsForDates runs EventsOn for each day; the result is aligned with days.
func EventsForDates(events []Event, days []time.Time) [][]Event {
	out := make([][]Event, len(days))
	for i, d := range days {
		out[i] = EventsOn(events, d)
	}
	return out
}

// EventsByDay is EventsForDates keyed by day.
func EventsByDay(events []Event, days []time.Time) map[time.Time][]Event {
	out := make(map[time.Time][]Event, len(days))
	for i, evs := range EventsForDates(events, days) {
		out[days[i]] = evs
	}
	return out
}

// sortByStart keeps insertion order among events starting at the same instant.
func sortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
