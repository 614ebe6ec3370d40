package domain

import "time"

// ─── Seasonal Campaign Types ────────────────────────────────────────────────

// SeasonRuleType identifies the event a seasonal rule responds to.
type SeasonRuleType string

const (
	// RuleSendPositive rewards sending a positive message in the window.
	RuleSendPositive SeasonRuleType = "SEND_POSITIVE"
	// RuleRespond rewards echoing back in the window.
	RuleRespond SeasonRuleType = "RESPOND"
	// RuleComeback rewards returning after an absence of several days.
	RuleComeback SeasonRuleType = "COMEBACK"
	// RuleBalancedDay rewards a day on which all three tracks were active.
	RuleBalancedDay SeasonRuleType = "BALANCED_DAY_MULTIPLIER"
)

// Valid reports whether the rule type is known.
func (r SeasonRuleType) Valid() bool {
	switch r {
	case RuleSendPositive, RuleRespond, RuleComeback, RuleBalancedDay:
		return true
	}
	return false
}

// SeasonRule is one capped per-user bonus within a seasonal campaign.
type SeasonRule struct {
	Type         SeasonRuleType `json:"type"`
	BonusCredits int64          `json:"bonus_credits"`
	MaxTotal     int            `json:"max_total"` // hard per-user ceiling for this season
}

// SeasonDefinition is a named date-windowed campaign, e.g. "VALENTINE_2025".
// Definition ids encode the year, so per-user counters reset implicitly
// when the next year's definition is introduced.
type SeasonDefinition struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Year      int          `json:"year"`
	StartDate time.Time    `json:"start_date"` // calendar date, midnight UTC
	EndDate   time.Time    `json:"end_date"`   // inclusive
	Active    bool         `json:"active"`
	Rules     []SeasonRule `json:"rules"`
}

// InWindow reports whether the given calendar day falls inside
// [StartDate, EndDate].
func (d SeasonDefinition) InWindow(day time.Time) bool {
	return !day.Before(d.StartDate) && !day.After(d.EndDate)
}

// Overlaps reports whether two definitions' windows intersect.
func (d SeasonDefinition) Overlaps(o SeasonDefinition) bool {
	return !d.StartDate.After(o.EndDate) && !o.StartDate.After(d.EndDate)
}
