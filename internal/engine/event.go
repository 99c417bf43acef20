package engine

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-planner/internal/config"
)

// Validation errors returned by the store and the document reader.
var (
	ErrTitleRequired  = errors.New(config.ErrTitleRequired)
	ErrEndBeforeStart = errors.New(config.ErrEndBeforeStart)
	ErrDuplicateID    = errors.New(config.ErrDuplicateID)
)

// Event is a single calendar entry.
type Event struct {
	// ID is assigned on creation and never changes.
	ID uuid.UUID

	Title string
	Start time.Time
	End   time.Time

	// Location and Notes are optional; an empty string means absent.
	Location string
	Notes    string

	Color  Color
	AllDay bool
}

// Duration is End minus Start, never negative.
func (e Event) Duration() time.Duration {
	if d := e.End.Sub(e.Start); d > 0 {
		return d
	}
	return 0
}

// Draft returns the editable fields of e.
func (e Event) Draft() Draft {
	return Draft{
		Title:    e.Title,
		Start:    e.Start,
		End:      e.End,
		Location: e.Location,
		Notes:    e.Notes,
		Color:    e.Color,
		AllDay:   e.AllDay,
	}
}

// Draft holds user-editable event fields: everything but the identifier.
type Draft struct {
	Title    string
	Start    time.Time
	End      time.Time
	Location string
	Notes    string
	Color    Color
	AllDay   bool
}

// Normalize trims text fields, replaces unknown colors with the default and
// collapses all-day events to their start instant.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Location = strings.TrimSpace(d.Location)
	d.Notes = strings.TrimSpace(d.Notes)
	if !d.Color.Valid() {
		d.Color = DefaultColor
	}
	if d.AllDay {
		d.End = d.Start
	}
	return d
}

// Validate checks a normalized draft.
func (d Draft) Validate() error {
	if d.Title == "" {
		return ErrTitleRequired
	}
	if d.End.Before(d.Start) {
		return ErrEndBeforeStart
	}
	return nil
}

func (d Draft) event(id uuid.UUID) Event {
	return Event{
		ID:       id,
		Title:    d.Title,
		Start:    d.Start,
		End:      d.End,
		Location: d.Location,
		Notes:    d.Notes,
		Color:    d.Color,
		AllDay:   d.AllDay,
	}
}
