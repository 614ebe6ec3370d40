package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// ─── Season Definitions ─────────────────────────────────────────────────────

// InsertSeasonDefinition stores a campaign and its rules.
func (d *DB) InsertSeasonDefinition(def domain.SeasonDefinition) error {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO season_definitions (id, name, year, start_date, end_date, active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		def.ID, def.Name, def.Year, def.StartDate.Unix(), def.EndDate.Unix(), def.Active,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrSeasonExists
	}

	for _, rule := range def.Rules {
		_, err := d.db.Exec(
			`INSERT INTO season_rules (season_id, type, bonus_credits, max_total)
			 VALUES (?, ?, ?, ?)`,
			def.ID, string(rule.Type), rule.BonusCredits, rule.MaxTotal,
		)
		if err != nil {
			return fmt.Errorf("insert season rule %s/%s: %w", def.ID, rule.Type, err)
		}
	}
	return nil
}

// ListSeasonDefinitions returns all campaigns with their rules.
func (d *DB) ListSeasonDefinitions() ([]domain.SeasonDefinition, error) {
	return d.querySeasons(
		`SELECT id, name, year, start_date, end_date, active
		 FROM season_definitions ORDER BY start_date ASC`,
	)
}

// ActiveSeasonDefinitions returns active campaigns whose window contains
// the given calendar day.
func (d *DB) ActiveSeasonDefinitions(day time.Time) ([]domain.SeasonDefinition, error) {
	return d.querySeasons(
		`SELECT id, name, year, start_date, end_date, active
		 FROM season_definitions
		 WHERE active = 1 AND start_date <= ? AND end_date >= ?
		 ORDER BY start_date ASC`,
		day.Unix(), day.Unix(),
	)
}

func (d *DB) querySeasons(query string, args ...any) ([]domain.SeasonDefinition, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []domain.SeasonDefinition
	for rows.Next() {
		var def domain.SeasonDefinition
		var start, end int64
		if err := rows.Scan(&def.ID, &def.Name, &def.Year, &start, &end, &def.Active); err != nil {
			return nil, err
		}
		def.StartDate = time.Unix(start, 0).UTC()
		def.EndDate = time.Unix(end, 0).UTC()
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range defs {
		rules, err := d.seasonRules(defs[i].ID)
		if err != nil {
			return nil, err
		}
		defs[i].Rules = rules
	}
	return defs, nil
}

func (d *DB) seasonRules(seasonID string) ([]domain.SeasonRule, error) {
	rows, err := d.db.Query(
		`SELECT type, bonus_credits, max_total FROM season_rules WHERE season_id = ?`,
		seasonID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.SeasonRule
	for rows.Next() {
		var r domain.SeasonRule
		if err := rows.Scan(&r.Type, &r.BonusCredits, &r.MaxTotal); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// ─── Season Counters ────────────────────────────────────────────────────────

// IncrementSeasonCounter atomically bumps the (user, season, rule) counter
// while it is below maxTotal. The conditional UPDATE is the cap guard; two
// concurrent calls can never push the counter past the ceiling.
func (d *DB) IncrementSeasonCounter(userID, seasonID string, rule domain.SeasonRuleType, maxTotal int) (int, bool, error) {
	if maxTotal <= 0 {
		return 0, false, nil
	}

	// Ensure the row exists, then increment under the cap. RETURNING keeps
	// the bump and the read of the new value one statement.
	if _, err := d.db.Exec(
		`INSERT OR IGNORE INTO season_counters (user_id, season_id, rule_type, count)
		 VALUES (?, ?, ?, 0)`,
		userID, seasonID, string(rule),
	); err != nil {
		return 0, false, err
	}

	var count int
	err := d.db.QueryRow(
		`UPDATE season_counters SET count = count + 1
		 WHERE user_id = ? AND season_id = ? AND rule_type = ? AND count < ?
		 RETURNING count`,
		userID, seasonID, string(rule), maxTotal,
	).Scan(&count)
	if err == sql.ErrNoRows {
		// At the cap already.
		current, rerr := d.SeasonCounter(userID, seasonID, rule)
		if rerr != nil {
			return 0, false, rerr
		}
		return current, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// SeasonCounter reads the current counter value (0 if absent).
func (d *DB) SeasonCounter(userID, seasonID string, rule domain.SeasonRuleType) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT count FROM season_counters WHERE user_id = ? AND season_id = ? AND rule_type = ?`,
		userID, seasonID, string(rule),
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return count, err
}

// ─── Season Announcements ───────────────────────────────────────────────────

// MarkSeasonAnnounced records the one-time season-start announcement.
// Returns false if the user was already announced for this season.
func (d *DB) MarkSeasonAnnounced(userID, seasonID string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO season_announcements (user_id, season_id, announced_at)
		 VALUES (?, ?, ?)`,
		userID, seasonID, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
