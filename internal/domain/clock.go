package domain

import "time"

// ─── Calendar Arithmetic ────────────────────────────────────────────────────
// All streak comparisons are on calendar dates, never instants. A calendar
// date is represented as midnight UTC of the user's local day, so two dates
// can be compared with Equal and subtracted for whole-day gaps.

// Clock supplies "now" and "today" resolved to a user's local calendar day.
// Injected so the engine is testable at fixed points in time.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// Today returns the current calendar date in the given IANA timezone.
	// An unknown or empty timezone falls back to UTC.
	Today(tz string) time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Today(tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}
	return DateOf(time.Now(), loc)
}

// DateOf normalizes an instant to the calendar date it falls on in loc,
// expressed as midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day gap from an earlier date to a later
// date. Both arguments must be normalized calendar dates.
func DaysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier) / (24 * time.Hour))
}
