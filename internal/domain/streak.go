// Package domain holds the core types of the Echo streak and reward engine.
// Streaks, milestones, seasonal rules, and the reward ledger are pure data
// here — persistence and evaluation live in internal/infra and internal/app.
package domain

import "time"

// ─── Streak Types ───────────────────────────────────────────────────────────

// StreakType identifies one of the three independent streak tracks.
type StreakType string

const (
	// StreakPresence counts consecutive days the user opened the app.
	StreakPresence StreakType = "PRESENCE"
	// StreakKindness counts consecutive days the user sent a positive message.
	StreakKindness StreakType = "KINDNESS"
	// StreakResponse counts consecutive days the user echoed back.
	StreakResponse StreakType = "RESPONSE"
)

// StreakTypes lists all tracks in evaluation order.
var StreakTypes = []StreakType{StreakPresence, StreakKindness, StreakResponse}

// StreakTrack is one independently-evolving daily streak line.
// Cycle counts how many times the track restarted after breaking a streak
// of more than one day — a human-facing season number, not a correctness
// value, but deterministic all the same.
type StreakTrack struct {
	Count          int       `json:"count"`
	Cycle          int       `json:"cycle"`
	LastActiveDate time.Time `json:"last_active_date"` // midnight UTC of local calendar day; zero = never active
}

// ActiveOn reports whether the track's last activity was on the given day.
func (t StreakTrack) ActiveOn(day time.Time) bool {
	return !t.LastActiveDate.IsZero() && t.LastActiveDate.Equal(day)
}

// UserStreakState is the durable per-user streak record.
// Created lazily on first activity, never deleted.
type UserStreakState struct {
	UserID          string      `json:"user_id"`
	Presence        StreakTrack `json:"presence"`
	Kindness        StreakTrack `json:"kindness"`
	Response        StreakTrack `json:"response"`
	GraceUsedAt     time.Time   `json:"grace_used_at"` // zero = never used
	TotalActiveDays int         `json:"total_active_days"`
	Version         int64       `json:"-"` // storage concurrency token
}

// Track returns a pointer to the named streak track.
func (s *UserStreakState) Track(st StreakType) *StreakTrack {
	switch st {
	case StreakKindness:
		return &s.Kindness
	case StreakResponse:
		return &s.Response
	default:
		return &s.Presence
	}
}
