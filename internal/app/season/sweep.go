package season

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/infra/metrics"
)

// Sweeper announces season starts to users. The announcement is a one-time
// per-user-per-season notification gated by its own "already announced"
// set — it carries no credit payout and is independent of rule evaluation.
type Sweeper struct {
	streaks   domain.StreakStore
	seasons   domain.SeasonStore
	notifier  domain.Notifier
	clock     domain.Clock
	batchSize int
	log       *logrus.Entry
}

// NewSweeper creates a season-start sweeper iterating users in batches of
// batchSize so one slow user cannot stall the whole sweep.
func NewSweeper(streaks domain.StreakStore, seasons domain.SeasonStore, notifier domain.Notifier, clock domain.Clock, batchSize int) *Sweeper {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Sweeper{
		streaks:   streaks,
		seasons:   seasons,
		notifier:  notifier,
		clock:     clock,
		batchSize: batchSize,
		log:       logrus.WithField("component", "season-sweep"),
	}
}

// Run starts the periodic sweep loop. Call in a goroutine.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.log.WithError(err).Warn("season sweep failed")
			}
		}
	}
}

// RunOnce performs a single sweep over all known users for today's active
// seasons. Per-user failures are logged and isolated, never propagated.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	today := s.clock.Today("")
	defs, err := s.seasons.ActiveSeasonDefinitions(today)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return nil
	}

	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		userIDs, err := s.streaks.ListStreakUserIDs(afterID, s.batchSize)
		if err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}

		for _, userID := range userIDs {
			metrics.SweepUsers.Inc()
			for _, def := range defs {
				if err := s.announce(userID, def); err != nil {
					metrics.SweepErrors.Inc()
					s.log.WithError(err).WithFields(logrus.Fields{
						"user":   userID,
						"season": def.ID,
					}).Warn("season announcement failed")
				}
			}
		}
		afterID = userIDs[len(userIDs)-1]
	}
}

// announce sends the one-time season-start notification if this user has
// not been announced for this season yet.
func (s *Sweeper) announce(userID string, def domain.SeasonDefinition) error {
	// Mark before notifying: a delivery failure after the mark is dropped,
	// never retried, so each user sees a season announcement at most once.
	first, err := s.seasons.MarkSeasonAnnounced(userID, def.ID, s.clock.Now())
	if err != nil {
		return err
	}
	if !first || s.notifier == nil {
		return nil
	}

	return s.notifier.Notify(domain.RewardNotification{
		UserID:      userID,
		RewardType:  domain.TxSeasonReward,
		Amount:      0, // announcement only, no payout
		RelatedID:   def.ID,
		Description: def.Name + " has begun",
	})
}
