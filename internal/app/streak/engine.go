// Package streak implements the Echo streak engine.
// A pure transition function (Advance) owns the day-boundary, grace-period,
// and cycle-reset policy; Service wires it to the store and the reward
// evaluators.
package streak

import (
	"time"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// GraceCooldown is the minimum time between two grace-period rescues.
const GraceCooldown = 7 * 24 * time.Hour

// graceGapDays is the exact gap a grace rescue forgives: one missed day.
const graceGapDays = 2

// Advance applies one calendar day of activity to a streak track.
//
// today must be a normalized calendar date (domain.DateOf). graceUsedAt is
// the shared last-rescue timestamp (zero = never); now is the instant to
// stamp on a consumed rescue. Only the presence track passes graceEligible.
//
// Returns the new track and whether the grace period was consumed; the
// caller must persist graceUsedAt = now when it was.
func Advance(track domain.StreakTrack, today time.Time, graceUsedAt time.Time, graceEligible bool, now time.Time) (domain.StreakTrack, bool) {
	// Same-day calls are no-ops, however many events fire that day.
	if track.ActiveOn(today) {
		return track, false
	}

	// First-ever activity
	if track.LastActiveDate.IsZero() {
		return domain.StreakTrack{Count: 1, Cycle: 1, LastActiveDate: today}, false
	}

	gap := domain.DaysBetween(track.LastActiveDate, today)

	// LastActiveDate is monotonically non-decreasing: an event dated
	// before the last recorded day is stale and ignored.
	if gap < 1 {
		return track, false
	}

	switch {
	case gap == 1:
		track.Count++

	case gap == graceGapDays && graceEligible && graceAvailable(graceUsedAt, now):
		track.Count++
		track.LastActiveDate = today
		return track, true

	default:
		// Streak breaks. A single isolated active day was never a
		// completed attempt, so it does not open a new cycle.
		if track.Count > 1 {
			track.Cycle++
		}
		track.Count = 1
	}

	track.LastActiveDate = today
	return track, false
}

// graceAvailable reports whether the shared grace period is off cooldown.
func graceAvailable(graceUsedAt, now time.Time) bool {
	return graceUsedAt.IsZero() || now.Sub(graceUsedAt) >= GraceCooldown
}
