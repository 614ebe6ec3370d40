package streak_test

import (
	"testing"
	"time"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/streak"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// day returns the normalized calendar date for January n, 2026.
func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestAdvance_FirstActivity(t *testing.T) {
	track, graceConsumed := streak.Advance(domain.StreakTrack{}, day(1), time.Time{}, true, day(1))

	if track.Count != 1 {
		t.Errorf("Count = %d, want 1", track.Count)
	}
	if track.Cycle != 1 {
		t.Errorf("Cycle = %d, want 1", track.Cycle)
	}
	if !track.LastActiveDate.Equal(day(1)) {
		t.Errorf("LastActiveDate = %v, want %v", track.LastActiveDate, day(1))
	}
	if graceConsumed {
		t.Error("grace consumed on first activity")
	}
}

func TestAdvance_SameDayIdempotent(t *testing.T) {
	track := domain.StreakTrack{Count: 4, Cycle: 2, LastActiveDate: day(10)}

	got, graceConsumed := streak.Advance(track, day(10), time.Time{}, true, day(10))
	if got != track {
		t.Errorf("same-day advance changed track: %+v", got)
	}
	if graceConsumed {
		t.Error("grace consumed on same-day no-op")
	}
}

func TestAdvance_ConsecutiveDayIncrements(t *testing.T) {
	track := domain.StreakTrack{Count: 4, Cycle: 2, LastActiveDate: day(10)}

	got, _ := streak.Advance(track, day(11), time.Time{}, true, day(11))
	if got.Count != 5 {
		t.Errorf("Count = %d, want 5", got.Count)
	}
	if got.Cycle != 2 {
		t.Errorf("Cycle = %d, want 2 (unchanged)", got.Cycle)
	}
}

func TestAdvance_GraceRescuesOneMissedDay(t *testing.T) {
	track := domain.StreakTrack{Count: 4, Cycle: 1, LastActiveDate: day(10)}

	// Missed day 11, back on day 12; grace never used before.
	got, graceConsumed := streak.Advance(track, day(12), time.Time{}, true, day(12))
	if !graceConsumed {
		t.Fatal("grace not consumed")
	}
	if got.Count != 5 {
		t.Errorf("Count = %d, want 5 (rescued)", got.Count)
	}
	if got.Cycle != 1 {
		t.Errorf("Cycle = %d, want 1 (no break)", got.Cycle)
	}
}

func TestAdvance_GraceOnCooldownBreaks(t *testing.T) {
	track := domain.StreakTrack{Count: 4, Cycle: 1, LastActiveDate: day(10)}
	// Grace was used 3 days ago — still inside the 7-day cooldown.
	graceUsedAt := day(9)

	got, graceConsumed := streak.Advance(track, day(12), graceUsedAt, true, day(12))
	if graceConsumed {
		t.Error("grace consumed while on cooldown")
	}
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1 (broken)", got.Count)
	}
	if got.Cycle != 2 {
		t.Errorf("Cycle = %d, want 2", got.Cycle)
	}
}

func TestAdvance_GraceAvailableAfterCooldown(t *testing.T) {
	track := domain.StreakTrack{Count: 4, Cycle: 1, LastActiveDate: day(10)}
	// Last rescue was 8 days before "now" — cooldown elapsed.
	graceUsedAt := day(4)

	got, graceConsumed := streak.Advance(track, day(12), graceUsedAt, true, day(12))
	if !graceConsumed {
		t.Fatal("grace not consumed after cooldown elapsed")
	}
	if got.Count != 5 {
		t.Errorf("Count = %d, want 5", got.Count)
	}
}

func TestAdvance_GraceNotEligibleBreaks(t *testing.T) {
	track := domain.StreakTrack{Count: 4, Cycle: 1, LastActiveDate: day(10)}

	got, graceConsumed := streak.Advance(track, day(12), time.Time{}, false, day(12))
	if graceConsumed {
		t.Error("grace consumed on an ineligible track")
	}
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1", got.Count)
	}
	if got.Cycle != 2 {
		t.Errorf("Cycle = %d, want 2", got.Cycle)
	}
}

func TestAdvance_LongGapBreaksEvenWithGrace(t *testing.T) {
	track := domain.StreakTrack{Count: 4, Cycle: 1, LastActiveDate: day(10)}

	// Two missed days — grace only forgives exactly one.
	got, graceConsumed := streak.Advance(track, day(13), time.Time{}, true, day(13))
	if graceConsumed {
		t.Error("grace consumed for a 2-day miss")
	}
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1", got.Count)
	}
	if got.Cycle != 2 {
		t.Errorf("Cycle = %d, want 2", got.Cycle)
	}
}

func TestAdvance_SingleDayBreakKeepsCycle(t *testing.T) {
	// One isolated active day was never a completed attempt, so a break
	// from Count 1 does not open a new cycle.
	track := domain.StreakTrack{Count: 1, Cycle: 1, LastActiveDate: day(10)}

	got, _ := streak.Advance(track, day(15), time.Time{}, true, day(15))
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1", got.Count)
	}
	if got.Cycle != 1 {
		t.Errorf("Cycle = %d, want 1 (unchanged)", got.Cycle)
	}
}

func TestAdvance_StaleEventIgnored(t *testing.T) {
	track := domain.StreakTrack{Count: 4, Cycle: 1, LastActiveDate: day(10)}

	got, graceConsumed := streak.Advance(track, day(8), time.Time{}, true, day(8))
	if got != track {
		t.Errorf("stale event changed track: %+v", got)
	}
	if graceConsumed {
		t.Error("grace consumed on stale event")
	}
}
