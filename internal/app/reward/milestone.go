// Package reward implements the milestone and consistency evaluators.
// Both run against freshly updated streak state and request idempotent
// awards; neither pre-checks the ledger — the deterministic key makes the
// ledger's no-op path the single dedup point.
package reward

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// MilestoneEvaluator checks updated streaks against a fixed threshold table.
type MilestoneEvaluator struct {
	ledger     domain.Awarder
	milestones []domain.Milestone
	log        *logrus.Entry
}

// NewMilestoneEvaluator creates an evaluator over an injected milestone
// table (DefaultMilestones in production, swappable in tests).
func NewMilestoneEvaluator(ledger domain.Awarder, milestones []domain.Milestone) *MilestoneEvaluator {
	return &MilestoneEvaluator{
		ledger:     ledger,
		milestones: milestones,
		log:        logrus.WithField("component", "milestone"),
	}
}

// CheckAndAward requests a reward for every milestone whose requiredCount
// equals newCount exactly — a milestone fires at the crossing update, not
// retroactively. The idempotency key omits the cycle, so each milestone is
// a lifetime achievement per streak type, awarded once ever.
func (m *MilestoneEvaluator) CheckAndAward(userID string, streakType domain.StreakType, newCount int) error {
	for _, ms := range m.milestones {
		if ms.StreakType != streakType || ms.RequiredCount != newCount {
			continue
		}

		key := MilestoneKey(streakType, ms.RequiredCount)
		_, newly, err := m.ledger.Award(domain.AwardRequest{
			UserID:         userID,
			Amount:         ms.RewardCredits,
			Type:           domain.TxStreakReward,
			IdempotencyKey: key,
			Description:    ms.DisplayName,
		})
		if err != nil {
			return fmt.Errorf("award milestone %s: %w", ms.ID, err)
		}
		if newly {
			m.log.WithFields(logrus.Fields{
				"user":      userID,
				"milestone": ms.ID,
				"count":     newCount,
			}).Info("milestone reached")
		}
	}
	return nil
}


// MilestoneKey builds the lifetime idempotency key for a streak milestone.
func MilestoneKey(streakType domain.StreakType, requiredCount int) string {
	return fmt.Sprintf("STREAK_REWARD_%s_%d", streakType, requiredCount)
}

// DefaultMilestones returns the milestone table shipped with the service.
func DefaultMilestones() []domain.Milestone {
	return []domain.Milestone{
		{ID: "presence_3", StreakType: domain.StreakPresence, RequiredCount: 3, RewardCredits: 5, DisplayName: "3-Day Presence Streak"},
		{ID: "presence_7", StreakType: domain.StreakPresence, RequiredCount: 7, RewardCredits: 15, DisplayName: "One Week Present"},
		{ID: "presence_14", StreakType: domain.StreakPresence, RequiredCount: 14, RewardCredits: 35, DisplayName: "Two Weeks Present"},
		{ID: "presence_30", StreakType: domain.StreakPresence, RequiredCount: 30, RewardCredits: 100, DisplayName: "A Month of Presence"},
		{ID: "presence_100", StreakType: domain.StreakPresence, RequiredCount: 100, RewardCredits: 500, DisplayName: "Hundred Days Present"},

		{ID: "kindness_3", StreakType: domain.StreakKindness, RequiredCount: 3, RewardCredits: 5, DisplayName: "3-Day Kindness Streak"},
		{ID: "kindness_7", StreakType: domain.StreakKindness, RequiredCount: 7, RewardCredits: 20, DisplayName: "One Week of Kindness"},
		{ID: "kindness_30", StreakType: domain.StreakKindness, RequiredCount: 30, RewardCredits: 120, DisplayName: "A Month of Kindness"},

		{ID: "response_3", StreakType: domain.StreakResponse, RequiredCount: 3, RewardCredits: 5, DisplayName: "3-Day Response Streak"},
		{ID: "response_7", StreakType: domain.StreakResponse, RequiredCount: 7, RewardCredits: 20, DisplayName: "One Week of Echoes"},
		{ID: "response_30", StreakType: domain.StreakResponse, RequiredCount: 30, RewardCredits: 120, DisplayName: "A Month of Echoes"},
	}
}
