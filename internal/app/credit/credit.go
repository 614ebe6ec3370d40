// Package credit implements the append-only reward ledger.
// Every reward-worthy event carries a deterministic idempotency key; the
// storage layer's uniqueness constraint guarantees an award with a given
// key is recorded at most once per user, even under concurrent evaluation.
package credit

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/infra/metrics"
)

// Service manages the reward ledger and the post-award notification hook.
type Service struct {
	db       domain.LedgerStore
	notifier domain.Notifier // nil disables notifications
	clock    domain.Clock
	log      *logrus.Entry
}

// NewService creates a ledger service. notifier may be nil.
func NewService(db domain.LedgerStore, notifier domain.Notifier, clock domain.Clock) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		clock:    clock,
		log:      logrus.WithField("component", "credit"),
	}
}

// Award credits a user. If req carries an idempotency key that already
// exists for the user, the call is a no-op returning the existing entry
// and newly = false — never an error and never a double credit.
//
// The notifier is invoked only after a newly recorded award; its failure
// is logged and swallowed, never rolling back the entry.
func (s *Service) Award(req domain.AwardRequest) (domain.LedgerEntry, bool, error) {
	if req.Amount <= 0 {
		return domain.LedgerEntry{}, false, domain.ErrAmountNotPositive
	}

	entry := domain.LedgerEntry{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Amount:         req.Amount,
		Type:           req.Type,
		IdempotencyKey: req.IdempotencyKey,
		RelatedID:      req.RelatedID,
		Description:    req.Description,
		CreatedAt:      s.clock.Now(),
	}

	inserted, err := s.db.InsertLedgerEntry(entry)
	if err != nil {
		return domain.LedgerEntry{}, false, fmt.Errorf("insert ledger entry: %w", err)
	}

	if !inserted {
		// Duplicate suppressed — the idempotent no-op path, not an error.
		existing, err := s.db.LedgerEntryByKey(req.UserID, req.IdempotencyKey)
		if err != nil {
			return domain.LedgerEntry{}, false, fmt.Errorf("load existing entry: %w", err)
		}
		if existing == nil {
			// Suppressed without a key match (e.g. an id collision).
			return domain.LedgerEntry{}, false, fmt.Errorf("ledger insert suppressed but no entry under key %q", req.IdempotencyKey)
		}
		metrics.RewardsSuppressed.Inc()
		s.log.WithFields(logrus.Fields{
			"user": req.UserID,
			"key":  req.IdempotencyKey,
		}).Debug("duplicate reward suppressed")
		return *existing, false, nil
	}

	metrics.RewardsGranted.WithLabelValues(string(req.Type)).Inc()
	metrics.CreditsAwarded.Add(float64(req.Amount))
	s.log.WithFields(logrus.Fields{
		"user":   req.UserID,
		"type":   req.Type,
		"amount": req.Amount,
		"key":    req.IdempotencyKey,
	}).Info("reward recorded")

	s.notify(domain.RewardNotification{
		UserID:      req.UserID,
		RewardType:  req.Type,
		Amount:      req.Amount,
		RelatedID:   req.RelatedID,
		Description: req.Description,
	})

	return entry, true, nil
}

// Spend records a key-less debit, e.g. an in-app purchase. Fails with
// ErrInsufficientCredits when the balance does not cover the amount.
func (s *Service) Spend(userID string, amount int64, description string) (domain.LedgerEntry, error) {
	if amount <= 0 {
		return domain.LedgerEntry{}, domain.ErrAmountNotPositive
	}

	balance, err := s.db.LedgerBalance(userID)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("get balance: %w", err)
	}
	if balance < amount {
		return domain.LedgerEntry{}, domain.ErrInsufficientCredits
	}

	entry := domain.LedgerEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      -amount,
		Type:        domain.TxPurchase,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}
	if _, err := s.db.InsertLedgerEntry(entry); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("insert ledger entry: %w", err)
	}
	return entry, nil
}

// Balance returns a user's current credit balance.
func (s *Service) Balance(userID string) (int64, error) {
	return s.db.LedgerBalance(userID)
}

// History returns a user's recent ledger entries.
func (s *Service) History(userID string, limit int) ([]domain.LedgerEntry, error) {
	return s.db.LedgerHistory(userID, limit)
}

// notify dispatches the reward side channel, fire-and-forget.
func (s *Service) notify(n domain.RewardNotification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(n); err != nil {
		metrics.NotifyFailures.Inc()
		s.log.WithError(err).WithField("user", n.UserID).Warn("reward notification failed")
	}
}
