package engine

import (
	"math"

	"github.com/tartampluch/go-planner/internal/config"
)

// Layout converts event times into vertical positions on a timeline.
type Layout struct {
	PixelsPerHour  float64
	MinBlockHeight float64
	AllDayOffset   float64
	AllDayHeight   float64
}

// Presets of the day and week timelines.
var (
	DayLayout = Layout{
		PixelsPerHour:  config.PixelsPerHour,
		MinBlockHeight: config.DayMinBlockHeight,
		AllDayOffset:   config.AllDayOffset,
		AllDayHeight:   config.DayAllDayHeight,
	}
	WeekLayout = Layout{
		PixelsPerHour:  config.PixelsPerHour,
		MinBlockHeight: config.WeekMinBlockHeight,
		AllDayOffset:   config.AllDayOffset,
		AllDayHeight:   config.WeekAllDayHeight,
	}
)

// LayoutFor returns the preset matching a view granularity.
func LayoutFor(g Granularity) Layout {
	if g == Day {
		return DayLayout
	}
	return WeekLayout
}

// WithScale returns a copy using pph pixels per hour. Minimum and all-day sizes are kept.
func (l Layout) WithScale(pph float64) Layout {
	if pph > 0 {
		l.PixelsPerHour = pph
	}
	return l
}

// Block is an event positioned in a timeline column.
type Block struct {
	Event  Event
	Offset float64
	Height float64

	// Lane is the horizontal slot inside a group of overlapping blocks and
	// Lanes the number of slots in that group. A lone block is lane 0 of 1.
	Lane  int
	Lanes int
}

// Bottom is Offset plus Height.
func (b Block) Bottom() float64 {
	return b.Offset + b.Height
}

// Place positions a single event. Timed events start at their time of day and
// are at least MinBlockHeight tall; all-day events use the fixed banner slot.
// A multi-day event keeps its full duration in its start-day column.
func (l Layout) Place(ev Event) Block {
	if ev.AllDay {
		return Block{Event: ev, Offset: l.AllDayOffset, Height: l.AllDayHeight, Lanes: 1}
	}

	start := ev.Start
	hours := float64(start.Hour()) + float64(start.Minute())/60
	height := ev.Duration().Hours() * l.PixelsPerHour

	return Block{
		Event:  ev,
		Offset: hours * l.PixelsPerHour,
		Height: math.Max(l.MinBlockHeight, height),
		Lanes:  1,
	}
}

// Column places every event of one day column, in the given order.
func (l Layout) Column(events []Event) []Block {
	blocks := make([]Block, len(events))
	for i, ev := range events {
		blocks[i] = l.Place(ev)
	}
	return blocks
}

// ContentHeight is the full height of a 24 hour timeline.
func (l Layout) ContentHeight() float64 {
	return config.HoursPerDay * l.PixelsPerHour
}

// Indicators returns the colors of up to limit events of a month cell, in display order.
func Indicators(cell Cell, limit int) []Color {
	n := min(len(cell.Events), limit)
	if n <= 0 {
		return nil
	}
	out := make([]Color, n)
	for i := range out {
		out[i] = cell.Events[i].Color
	}
	return out
}
