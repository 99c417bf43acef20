package engine

import "time"

// CountdownState is the time left until a target instant.
type CountdownState struct {
	Target    time.Time
	Remaining time.Duration

	// Days, Hours, Minutes and Seconds decompose Remaining.
	Days    int
	Hours   int
	Minutes int
	Seconds int

	// Expired is set once now is past the target; all counters are then zero.
	Expired bool
}

// DaysRemaining is the number of whole days left, never negative.
func (c CountdownState) DaysRemaining() int {
	return c.Days
}

// Countdown computes the state of a countdown at now.
func Countdown(now, target time.Time) CountdownState {
	remaining := target.Sub(now)
	if remaining < 0 {
		return CountdownState{Target: target, Expired: true}
	}

	rem := remaining.Truncate(time.Second)
	days := int(rem / (24 * time.Hour))
	rem -= time.Duration(days) * 24 * time.Hour
	hours := int(rem / time.Hour)
	rem -= time.Duration(hours) * time.Hour
	minutes := int(rem / time.Minute)
	rem -= time.Duration(minutes) * time.Minute

	return CountdownState{
		Target:    target,
		Remaining: remaining,
		Days:      days,
		Hours:     hours,
		Minutes:   minutes,
		Seconds:   int(rem / time.Second),
	}
}

// ValidCountdownTarget accepts targets whose calendar day is today or later.
func ValidCountdownTarget(now, target time.Time) bool {
	return !StartOfDay(target.In(now.Location())).Before(StartOfDay(now))
}
