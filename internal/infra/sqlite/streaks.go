package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// ─── Streak State ───────────────────────────────────────────────────────────

// GetStreakState returns a user's streak record, or nil if the user has
// no activity yet.
func (d *DB) GetStreakState(userID string) (*domain.UserStreakState, error) {
	row := d.db.QueryRow(
		`SELECT user_id,
			presence_count, presence_cycle, presence_last_active,
			kindness_count, kindness_cycle, kindness_last_active,
			response_count, response_cycle, response_last_active,
			grace_used_at, total_active_days, version
		 FROM streaks WHERE user_id = ?`, userID,
	)

	var s domain.UserStreakState
	var presenceLast, kindnessLast, responseLast, graceUsed sql.NullInt64
	err := row.Scan(&s.UserID,
		&s.Presence.Count, &s.Presence.Cycle, &presenceLast,
		&s.Kindness.Count, &s.Kindness.Cycle, &kindnessLast,
		&s.Response.Count, &s.Response.Cycle, &responseLast,
		&graceUsed, &s.TotalActiveDays, &s.Version,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan streak state: %w", err)
	}

	s.Presence.LastActiveDate = unixOrZero(presenceLast)
	s.Kindness.LastActiveDate = unixOrZero(kindnessLast)
	s.Response.LastActiveDate = unixOrZero(responseLast)
	s.GraceUsedAt = unixOrZero(graceUsed)
	return &s, nil
}

// SaveStreakState writes the record conditionally on its version.
// expectedVersion 0 inserts a fresh row; otherwise the update only applies
// while the stored version is unchanged. A lost race in either direction
// returns domain.ErrStaleState.
func (d *DB) SaveStreakState(state domain.UserStreakState, expectedVersion int64) error {
	if expectedVersion == 0 {
		result, err := d.db.Exec(
			`INSERT OR IGNORE INTO streaks (user_id,
				presence_count, presence_cycle, presence_last_active,
				kindness_count, kindness_cycle, kindness_last_active,
				response_count, response_cycle, response_last_active,
				grace_used_at, total_active_days, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			state.UserID,
			state.Presence.Count, state.Presence.Cycle, nullableUnix(state.Presence.LastActiveDate),
			state.Kindness.Count, state.Kindness.Cycle, nullableUnix(state.Kindness.LastActiveDate),
			state.Response.Count, state.Response.Cycle, nullableUnix(state.Response.LastActiveDate),
			nullableUnix(state.GraceUsedAt), state.TotalActiveDays,
		)
		if err != nil {
			return fmt.Errorf("insert streak state: %w", err)
		}
		n, _ := result.RowsAffected()
		if n == 0 {
			return domain.ErrStaleState // someone created the row first
		}
		return nil
	}

	result, err := d.db.Exec(
		`UPDATE streaks SET
			presence_count = ?, presence_cycle = ?, presence_last_active = ?,
			kindness_count = ?, kindness_cycle = ?, kindness_last_active = ?,
			response_count = ?, response_cycle = ?, response_last_active = ?,
			grace_used_at = ?, total_active_days = ?, version = version + 1
		 WHERE user_id = ? AND version = ?`,
		state.Presence.Count, state.Presence.Cycle, nullableUnix(state.Presence.LastActiveDate),
		state.Kindness.Count, state.Kindness.Cycle, nullableUnix(state.Kindness.LastActiveDate),
		state.Response.Count, state.Response.Cycle, nullableUnix(state.Response.LastActiveDate),
		nullableUnix(state.GraceUsedAt), state.TotalActiveDays,
		state.UserID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update streak state: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrStaleState
	}
	return nil
}

// ListStreakUserIDs pages user ids in ascending order for the sweep.
func (d *DB) ListStreakUserIDs(afterID string, limit int) ([]string, error) {
	rows, err := d.db.Query(
		`SELECT user_id FROM streaks WHERE user_id > ? ORDER BY user_id ASC LIMIT ?`,
		afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
