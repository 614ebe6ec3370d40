package reward

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// consistencyInterval is the lifetime-active-day step that pays a bonus.
const consistencyInterval = 10

// consistencyCredits is the bonus paid at each interval.
const consistencyCredits = 5

// ConsistencyEvaluator rewards cumulative lifetime activity. Unlike streak
// milestones it never resets: every positive multiple of ten active days
// pays a small bonus, keyed so each multiple pays exactly once.
type ConsistencyEvaluator struct {
	ledger domain.Awarder
	log    *logrus.Entry
}

// NewConsistencyEvaluator creates a consistency evaluator.
func NewConsistencyEvaluator(ledger domain.Awarder) *ConsistencyEvaluator {
	return &ConsistencyEvaluator{
		ledger: ledger,
		log:    logrus.WithField("component", "consistency"),
	}
}

// CheckAndAward requests the bonus when totalActiveDays sits exactly on a
// multiple of ten.
func (c *ConsistencyEvaluator) CheckAndAward(userID string, totalActiveDays int) error {
	if totalActiveDays <= 0 || totalActiveDays%consistencyInterval != 0 {
		return nil
	}

	_, newly, err := c.ledger.Award(domain.AwardRequest{
		UserID:         userID,
		Amount:         consistencyCredits,
		Type:           domain.TxBalancedBonus,
		IdempotencyKey: ConsistencyKey(totalActiveDays),
		Description:    fmt.Sprintf("%d active days", totalActiveDays),
	})
	if err != nil {
		return fmt.Errorf("award consistency bonus: %w", err)
	}
	if newly {
		c.log.WithFields(logrus.Fields{
			"user": userID,
			"days": totalActiveDays,
		}).Info("consistency bonus reached")
	}
	return nil
}

// ConsistencyKey builds the idempotency key for a lifetime-days bonus.
func ConsistencyKey(totalActiveDays int) string {
	return fmt.Sprintf("CONSISTENCY_%d", totalActiveDays)
}
