package sqlite

import (
	"database/sql"
	"time"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/notify"
)

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification queues a reward notification.
func (d *DB) InsertNotification(n notify.Notification) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO notifications (user_id, reward_type, amount, related_id, description, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		n.UserID, string(n.RewardType), n.Amount,
		nullStr(n.RelatedID), nullStr(n.Description), n.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListPendingNotifications returns a user's unshown notifications.
func (d *DB) ListPendingNotifications(userID string, limit int) ([]notify.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, reward_type, amount, related_id, description, created_at, shown
		 FROM notifications WHERE user_id = ? AND shown = 0
		 ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []notify.Notification
	for rows.Next() {
		var n notify.Notification
		var createdAt int64
		var relatedID, desc sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.RewardType, &n.Amount,
			&relatedID, &desc, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		n.RelatedID = strOrEmpty(relatedID)
		n.Description = strOrEmpty(desc)
		n.CreatedAt = time.Unix(createdAt, 0).UTC()
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}
