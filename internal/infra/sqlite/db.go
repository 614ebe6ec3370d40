// Package sqlite provides SQLite-based persistent storage for Echo.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Per-user streak state: three tracks, shared grace timestamp,
		// lifetime active-day counter, and an optimistic-concurrency
		// version column.
		`CREATE TABLE IF NOT EXISTS streaks (
			user_id              TEXT PRIMARY KEY,
			presence_count       INTEGER NOT NULL DEFAULT 0,
			presence_cycle       INTEGER NOT NULL DEFAULT 0,
			presence_last_active INTEGER,
			kindness_count       INTEGER NOT NULL DEFAULT 0,
			kindness_cycle       INTEGER NOT NULL DEFAULT 0,
			kindness_last_active INTEGER,
			response_count       INTEGER NOT NULL DEFAULT 0,
			response_cycle       INTEGER NOT NULL DEFAULT 0,
			response_last_active INTEGER,
			grace_used_at        INTEGER,
			total_active_days    INTEGER NOT NULL DEFAULT 0,
			version              INTEGER NOT NULL DEFAULT 1
		)`,

		// Append-only reward ledger. The unique index on
		// (user_id, idempotency_key) is the at-most-once guarantee;
		// NULL keys are distinct, so key-less entries always append.
		`CREATE TABLE IF NOT EXISTS reward_ledger (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL,
			amount          INTEGER NOT NULL,
			type            TEXT NOT NULL,
			idempotency_key TEXT,
			related_id      TEXT,
			description     TEXT,
			created_at      INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_user_key
			ON reward_ledger(user_id, idempotency_key)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_user_created
			ON reward_ledger(user_id, created_at)`,

		// Seasonal campaign definitions and their rules
		`CREATE TABLE IF NOT EXISTS season_definitions (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			year       INTEGER NOT NULL,
			start_date INTEGER NOT NULL,
			end_date   INTEGER NOT NULL,
			active     BOOLEAN NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS season_rules (
			season_id     TEXT NOT NULL REFERENCES season_definitions(id),
			type          TEXT NOT NULL,
			bonus_credits INTEGER NOT NULL,
			max_total     INTEGER NOT NULL,
			PRIMARY KEY (season_id, type)
		)`,

		// Per-(user, season, rule) capped counters
		`CREATE TABLE IF NOT EXISTS season_counters (
			user_id   TEXT NOT NULL,
			season_id TEXT NOT NULL,
			rule_type TEXT NOT NULL,
			count     INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, season_id, rule_type)
		)`,

		// One-time per-user season-start announcement set
		`CREATE TABLE IF NOT EXISTS season_announcements (
			user_id      TEXT NOT NULL,
			season_id    TEXT NOT NULL,
			announced_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, season_id)
		)`,

		// Queued reward notifications for the app shell
		`CREATE TABLE IF NOT EXISTS notifications (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL,
			reward_type TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			related_id  TEXT,
			description TEXT,
			created_at  INTEGER NOT NULL,
			shown       BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_user_shown
			ON notifications(user_id, shown)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// nullableUnix converts a time to unix seconds, NULL for the zero time.
func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

// unixOrZero converts a nullable unix column back to a time.
func unixOrZero(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0).UTC()
}

// nullStr converts a string to a nullable column value ("" becomes NULL).
func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func strOrEmpty(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}
