package domain

import "time"

// ─── Reward Ledger Types ────────────────────────────────────────────────────

// TransactionType categorizes ledger entries.
type TransactionType string

const (
	TxStreakReward  TransactionType = "STREAK_REWARD"
	TxBalancedBonus TransactionType = "BALANCED_ACTIVITY_BONUS"
	TxSeasonReward  TransactionType = "SEASON_REWARD"
	TxPurchase      TransactionType = "PURCHASE"
)

// LedgerEntry is one immutable reward ledger transaction.
// For any non-empty IdempotencyKey, at most one entry with that key may
// ever exist per user — the engine's central invariant.
type LedgerEntry struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Amount         int64           `json:"amount"` // credits; negative for purchases
	Type           TransactionType `json:"type"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	RelatedID      string          `json:"related_id,omitempty"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AwardRequest asks the ledger to credit a user.
// An empty IdempotencyKey always appends a fresh entry.
type AwardRequest struct {
	UserID         string
	Amount         int64
	Type           TransactionType
	IdempotencyKey string
	RelatedID      string
	Description    string
}

// RewardNotification is the best-effort side channel payload sent after a
// newly recorded (non-duplicate) award.
type RewardNotification struct {
	UserID      string          `json:"user_id"`
	RewardType  TransactionType `json:"reward_type"`
	Amount      int64           `json:"amount"`
	RelatedID   string          `json:"related_id,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ─── Milestones ─────────────────────────────────────────────────────────────

// Milestone is a fixed streak-count threshold paying a one-time lifetime
// reward. The table ships with the service and is injected, not global.
type Milestone struct {
	ID            string     `json:"id"`
	StreakType    StreakType `json:"streak_type"`
	RequiredCount int        `json:"required_count"`
	RewardCredits int64      `json:"reward_credits"`
	DisplayName   string     `json:"display_name"`
}
