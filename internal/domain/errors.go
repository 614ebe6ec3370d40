package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Activity validation errors — rejected before any state mutation.
	ErrUnknownActivity = errors.New("unknown activity type")
	ErrInvalidDate     = errors.New("activity date missing or not a calendar date")
	ErrMissingUserID   = errors.New("user id is required")

	// ErrStaleState signals a concurrent modification of a user's streak
	// record. Callers retry the read-modify-write a bounded number of times.
	ErrStaleState = errors.New("streak state modified concurrently")

	// Ledger errors
	ErrAmountNotPositive   = errors.New("reward amount must be positive")
	ErrInsufficientCredits = errors.New("insufficient credits")

	// Season definition errors
	ErrSeasonExists        = errors.New("season definition already exists")
	ErrSeasonWindowInvalid = errors.New("season start date is after end date")
	ErrSeasonOverlap       = errors.New("season window overlaps an active definition for the same year")
	ErrUnknownSeasonRule   = errors.New("unknown seasonal rule type")
)
