package domain

import "time"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// StreakStore is the durable per-user streak record.
type StreakStore interface {
	// GetStreakState returns a user's streak record, or nil if the user
	// has no activity yet.
	GetStreakState(userID string) (*UserStreakState, error)

	// SaveStreakState writes the record if its stored version still equals
	// expectedVersion (0 for a new record). Returns ErrStaleState on a
	// concurrent modification.
	SaveStreakState(state UserStreakState, expectedVersion int64) error

	// ListStreakUserIDs pages user ids in ascending order, for bounded
	// background sweeps. afterID "" starts from the beginning.
	ListStreakUserIDs(afterID string, limit int) ([]string, error)
}

// LedgerStore is the append-only reward transaction log.
type LedgerStore interface {
	// InsertLedgerEntry appends an entry. When the entry carries an
	// idempotency key that already exists for the user, nothing is written
	// and inserted is false. Uniqueness is enforced by the storage layer,
	// not by check-then-insert.
	InsertLedgerEntry(e LedgerEntry) (inserted bool, err error)

	// LedgerEntryByKey returns the entry recorded under (userID, key),
	// or nil if none exists.
	LedgerEntryByKey(userID, key string) (*LedgerEntry, error)

	// LedgerBalance returns the sum of a user's entry amounts.
	LedgerBalance(userID string) (int64, error)

	// LedgerHistory returns a user's most recent entries.
	LedgerHistory(userID string, limit int) ([]LedgerEntry, error)
}

// SeasonStore persists seasonal definitions, per-user rule counters, and
// the per-user season-start announcement set.
type SeasonStore interface {
	InsertSeasonDefinition(def SeasonDefinition) error
	ListSeasonDefinitions() ([]SeasonDefinition, error)

	// ActiveSeasonDefinitions returns active definitions whose window
	// contains the given calendar day.
	ActiveSeasonDefinitions(day time.Time) ([]SeasonDefinition, error)

	// IncrementSeasonCounter atomically bumps the (user, season, rule)
	// counter while it is below maxTotal. Returns the new count and
	// whether the increment happened.
	IncrementSeasonCounter(userID, seasonID string, rule SeasonRuleType, maxTotal int) (count int, incremented bool, err error)

	// SeasonCounter reads the current counter value (0 if absent).
	SeasonCounter(userID, seasonID string, rule SeasonRuleType) (int, error)

	// MarkSeasonAnnounced records the one-time season-start announcement.
	// Returns false if the user was already announced for this season.
	MarkSeasonAnnounced(userID, seasonID string, at time.Time) (bool, error)
}

// Awarder is the ledger contract consumed by the evaluators. newly is
// false when an idempotency key suppressed a duplicate; the returned
// entry is then the original one.
type Awarder interface {
	Award(req AwardRequest) (entry LedgerEntry, newly bool, err error)
}

// Notifier is the best-effort reward side channel. A failed notification
// is logged by the caller and never rolls back a ledger entry.
type Notifier interface {
	Notify(n RewardNotification) error
}
