package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
)

// Granularity selects the span of a calendar view.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return config.ViewDay
	case Week:
		return config.ViewWeek
	case Month:
		return config.ViewMonth
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity accepts "day", "week" or "month".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case config.ViewDay:
		return Day, nil
	case config.ViewWeek:
		return Week, nil
	case config.ViewMonth:
		return Month, nil
	}
	return Week, fmt.Errorf("unknown granularity %q", s)
}

// Cell is one visible date of a calendar view.
type Cell struct {
	Date time.Time

	// InCurrentRange is false for the leading and trailing days of a month grid.
	InCurrentRange bool

	IsSelected bool
	IsToday    bool

	// Events starting on Date, sorted by start.
	Events []Event
}

// Grid generates the dates shown by the day, week and month views.
type Grid struct {
	WeekStart time.Weekday
}

// NewGrid returns a grid whose weeks begin on weekStart.
func NewGrid(weekStart time.Weekday) Grid {
	return Grid{WeekStart: weekStart}
}

// Dates returns the visible days for anchor, each at midnight in anchor's location.
// Day yields one date, Week seven starting at the week start, and Month exactly
// 42 starting at the week start containing the first of the month.
func (g Grid) Dates(anchor time.Time, gran Granularity) []time.Time {
	var first time.Time
	var n int

	switch gran {
	case Day:
		return []time.Time{StartOfDay(anchor)}
	case Month:
		first = StartOfWeek(StartOfMonth(anchor), g.WeekStart)
		n = config.MonthGridDays
	default:
		first = StartOfWeek(anchor, g.WeekStart)
		n = config.DaysPerWeek
	}

	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, i)
	}
	return dates
}

// Cells decorates Dates with range, selection and today flags and attaches
// the events starting on each day.
func (g Grid) Cells(anchor time.Time, gran Granularity, selected, today time.Time, events []Event) []Cell {
	dates := g.Dates(anchor, gran)
	byDay := EventsForDates(events, dates)

	cells := make([]Cell, len(dates))
	for i, d := range dates {
		inRange := true
		if gran == Month {
			inRange = d.Month() == anchor.Month() && d.Year() == anchor.Year()
		}
		cells[i] = Cell{
			Date:           d,
			InCurrentRange: inRange,
			IsSelected:     !selected.IsZero() && SameDay(selected, d),
			IsToday:        SameDay(today, d),
			Events:         byDay[i],
		}
	}
	return cells
}

// Navigate moves anchor by delta days, weeks or calendar months.
// Month steps clamp the day-of-month (Jan 31 + 1 month = Feb 28).
// A result outside years 1..9999 leaves the anchor unchanged.
func (g Grid) Navigate(anchor time.Time, gran Granularity, delta int) time.Time {
	var next time.Time
	switch gran {
	case Day:
		next = anchor.AddDate(0, 0, delta)
	case Month:
		next = AddMonths(anchor, delta)
	default:
		next = anchor.AddDate(0, 0, delta*config.DaysPerWeek)
	}

	if !inRange(next) {
		return anchor
	}
	return next
}
