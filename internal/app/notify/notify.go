// Package notify implements the reward notification side channel.
// Notifications are queued in the store for the app shell (push delivery
// is an external collaborator); the channel is best-effort by contract —
// callers log and swallow failures, and a failed notification never rolls
// back a ledger entry.
package notify

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// Notification is a queued user-facing reward message.
type Notification struct {
	ID          int64                  `json:"id"`
	UserID      string                 `json:"user_id"`
	RewardType  domain.TransactionType `json:"reward_type"`
	Amount      int64                  `json:"amount"`
	RelatedID   string                 `json:"related_id,omitempty"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	Shown       bool                   `json:"shown"`
}

// Store is the notification queue's persistence contract.
type Store interface {
	InsertNotification(n Notification) (int64, error)
	ListPendingNotifications(userID string, limit int) ([]Notification, error)
	MarkNotificationShown(id int64) error
}

// Service queues reward notifications. Implements domain.Notifier.
type Service struct {
	db    Store
	clock domain.Clock
	log   *logrus.Entry
}

// NewService creates a notification service.
func NewService(db Store, clock domain.Clock) *Service {
	return &Service{
		db:    db,
		clock: clock,
		log:   logrus.WithField("component", "notify"),
	}
}

// Notify queues one reward notification.
func (s *Service) Notify(n domain.RewardNotification) error {
	id, err := s.db.InsertNotification(Notification{
		UserID:      n.UserID,
		RewardType:  n.RewardType,
		Amount:      n.Amount,
		RelatedID:   n.RelatedID,
		Description: n.Description,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"user": n.UserID,
		"id":   id,
		"type": n.RewardType,
	}).Debug("notification queued")
	return nil
}

// Pending returns a user's unshown notifications.
func (s *Service) Pending(userID string, limit int) ([]Notification, error) {
	return s.db.ListPendingNotifications(userID, limit)
}

// MarkShown marks a notification as shown.
func (s *Service) MarkShown(id int64) error {
	return s.db.MarkNotificationShown(id)
}
