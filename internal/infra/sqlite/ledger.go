package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// ─── Reward Ledger ──────────────────────────────────────────────────────────

// InsertLedgerEntry appends a ledger entry. Entries carrying an
// idempotency key insert through OR IGNORE against the unique
// (user_id, idempotency_key) index, so a concurrent duplicate loses the
// race cleanly: inserted is false and nothing is written.
func (d *DB) InsertLedgerEntry(e domain.LedgerEntry) (bool, error) {
	const stmt = `INSERT %s INTO reward_ledger
		(id, user_id, amount, type, idempotency_key, related_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	conflict := ""
	if e.IdempotencyKey != "" {
		conflict = "OR IGNORE"
	}

	result, err := d.db.Exec(
		fmt.Sprintf(stmt, conflict),
		e.ID, e.UserID, e.Amount, string(e.Type),
		nullStr(e.IdempotencyKey), nullStr(e.RelatedID), nullStr(e.Description),
		e.CreatedAt.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// LedgerEntryByKey returns the entry recorded under (userID, key), or nil.
func (d *DB) LedgerEntryByKey(userID, key string) (*domain.LedgerEntry, error) {
	row := d.db.QueryRow(
		`SELECT id, user_id, amount, type, idempotency_key, related_id, description, created_at
		 FROM reward_ledger WHERE user_id = ? AND idempotency_key = ?`,
		userID, key,
	)
	return scanLedgerEntry(row)
}

// LedgerBalance returns the sum of a user's entry amounts.
func (d *DB) LedgerBalance(userID string) (int64, error) {
	var balance sql.NullInt64
	err := d.db.QueryRow(
		`SELECT SUM(amount) FROM reward_ledger WHERE user_id = ?`, userID,
	).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance.Int64, nil
}

// LedgerHistory returns a user's most recent entries.
func (d *DB) LedgerHistory(userID string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, amount, type, idempotency_key, related_id, description, created_at
		 FROM reward_ledger WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func scanLedgerEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var createdAt int64
	var key, relatedID, desc sql.NullString

	err := s.Scan(&e.ID, &e.UserID, &e.Amount, &e.Type, &key, &relatedID, &desc, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}

	e.IdempotencyKey = strOrEmpty(key)
	e.RelatedID = strOrEmpty(relatedID)
	e.Description = strOrEmpty(desc)
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &e, nil
}
