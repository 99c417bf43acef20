package engine

import "time"

// Clock is the planner's source of "now": today's highlight, countdowns,
// birthday projections and feed timestamps all read it.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// NowFrom reads c, falling back to the wall clock when c is nil.
func NowFrom(c Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c.Now()
}
