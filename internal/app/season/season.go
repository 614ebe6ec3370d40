// Package season implements date-windowed seasonal reward campaigns.
// Each campaign ("VALENTINE_2025") carries capped per-user rules; the cap
// is enforced by an atomic conditional counter increment, and each paid
// increment gets its own idempotency key.
package season

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// Engine evaluates seasonal rules against ingested activity events.
type Engine struct {
	db     domain.SeasonStore
	ledger domain.Awarder
	log    *logrus.Entry
}

// NewEngine creates a seasonal rule engine.
func NewEngine(db domain.SeasonStore, ledger domain.Awarder) *Engine {
	return &Engine{
		db:     db,
		ledger: ledger,
		log:    logrus.WithField("component", "season"),
	}
}

// Evaluate applies every matching rule of every active in-window campaign.
// A rule pays while its per-user counter is below MaxTotal; at the cap it
// is a silent no-op. date must be a normalized calendar date.
func (e *Engine) Evaluate(userID string, eventType domain.SeasonRuleType, date time.Time, relatedID string) error {
	defs, err := e.db.ActiveSeasonDefinitions(date)
	if err != nil {
		return fmt.Errorf("load active seasons: %w", err)
	}

	for _, def := range defs {
		for _, rule := range def.Rules {
			if rule.Type != eventType {
				continue
			}

			count, incremented, err := e.db.IncrementSeasonCounter(userID, def.ID, rule.Type, rule.MaxTotal)
			if err != nil {
				return fmt.Errorf("increment season counter %s: %w", def.ID, err)
			}
			if !incremented {
				// Cap reached — hard ceiling per user per season per rule.
				continue
			}

			_, _, err = e.ledger.Award(domain.AwardRequest{
				UserID:         userID,
				Amount:         rule.BonusCredits,
				Type:           domain.TxSeasonReward,
				IdempotencyKey: RewardKey(def.ID, rule.Type, count),
				RelatedID:      relatedID,
				Description:    def.Name + " Appreciation",
			})
			if err != nil {
				return fmt.Errorf("award season reward %s: %w", def.ID, err)
			}
			e.log.WithFields(logrus.Fields{
				"user":   userID,
				"season": def.ID,
				"rule":   rule.Type,
				"count":  count,
			}).Debug("season rule paid")
		}
	}
	return nil
}

// CreateDefinition validates and stores a new campaign. The window must be
// ordered, and active definitions of the same year must not overlap —
// enforced here at creation, not by the evaluator.
func (e *Engine) CreateDefinition(def domain.SeasonDefinition) error {
	if def.StartDate.After(def.EndDate) {
		return domain.ErrSeasonWindowInvalid
	}
	for _, rule := range def.Rules {
		if !rule.Type.Valid() {
			return domain.ErrUnknownSeasonRule
		}
	}

	existing, err := e.db.ListSeasonDefinitions()
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	for _, other := range existing {
		if def.Active && other.Active && other.Year == def.Year && def.Overlaps(other) {
			return domain.ErrSeasonOverlap
		}
	}

	if err := e.db.InsertSeasonDefinition(def); err != nil {
		return fmt.Errorf("insert season: %w", err)
	}
	e.log.WithFields(logrus.Fields{
		"season": def.ID,
		"start":  def.StartDate.Format("2006-01-02"),
		"end":    def.EndDate.Format("2006-01-02"),
	}).Info("season definition created")
	return nil
}

// List returns all stored campaign definitions.
func (e *Engine) List() ([]domain.SeasonDefinition, error) {
	return e.db.ListSeasonDefinitions()
}

// RewardKey builds the idempotency key for the nth payout of a rule.
func RewardKey(seasonID string, rule domain.SeasonRuleType, count int) string {
	return fmt.Sprintf("SEASON_%s_%s_%d", seasonID, rule, count)
}
