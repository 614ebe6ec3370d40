package sqlite_test

import (
	"errors"
	"testing"
	"time"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/notify"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

// ─── Streak state ───────────────────────────────────────────────────────────

func TestStreakState_RoundTrip(t *testing.T) {
	db := testDB(t)

	got, err := db.GetStreakState("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown user, got %+v", got)
	}

	state := domain.UserStreakState{
		UserID:          "u1",
		Presence:        domain.StreakTrack{Count: 3, Cycle: 1, LastActiveDate: day(3)},
		Kindness:        domain.StreakTrack{Count: 1, Cycle: 2, LastActiveDate: day(2)},
		GraceUsedAt:     day(2),
		TotalActiveDays: 3,
	}
	if err := db.SaveStreakState(state, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err = db.GetStreakState("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Presence.Count != 3 || !got.Presence.LastActiveDate.Equal(day(3)) {
		t.Errorf("Presence = %+v", got.Presence)
	}
	if got.Kindness.Cycle != 2 {
		t.Errorf("Kindness.Cycle = %d, want 2", got.Kindness.Cycle)
	}
	if got.Response.Count != 0 || !got.Response.LastActiveDate.IsZero() {
		t.Errorf("Response = %+v, want zero track", got.Response)
	}
	if !got.GraceUsedAt.Equal(day(2)) {
		t.Errorf("GraceUsedAt = %v", got.GraceUsedAt)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
}

func TestSaveStreakState_VersionConflict(t *testing.T) {
	db := testDB(t)

	state := domain.UserStreakState{UserID: "u1", Presence: domain.StreakTrack{Count: 1, Cycle: 1, LastActiveDate: day(1)}}
	if err := db.SaveStreakState(state, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// A second blind insert loses to the first.
	if err := db.SaveStreakState(state, 0); !errors.Is(err, domain.ErrStaleState) {
		t.Errorf("duplicate insert: got %v, want ErrStaleState", err)
	}

	// Update with the right version succeeds and bumps it.
	state.Presence.Count = 2
	if err := db.SaveStreakState(state, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := db.GetStreakState("u1")
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}

	// A writer still holding version 1 loses.
	if err := db.SaveStreakState(state, 1); !errors.Is(err, domain.ErrStaleState) {
		t.Errorf("stale update: got %v, want ErrStaleState", err)
	}
}

func TestListStreakUserIDs_Pages(t *testing.T) {
	db := testDB(t)
	for _, user := range []string{"a", "b", "c"} {
		if err := db.SaveStreakState(domain.UserStreakState{UserID: user}, 0); err != nil {
			t.Fatalf("seed %s: %v", user, err)
		}
	}

	page1, err := db.ListStreakUserIDs("", 2)
	if err != nil {
		t.Fatalf("page1: %v", err)
	}
	if len(page1) != 2 || page1[0] != "a" || page1[1] != "b" {
		t.Errorf("page1 = %v, want [a b]", page1)
	}

	page2, err := db.ListStreakUserIDs(page1[len(page1)-1], 2)
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	if len(page2) != 1 || page2[0] != "c" {
		t.Errorf("page2 = %v, want [c]", page2)
	}
}

// ─── Reward ledger ──────────────────────────────────────────────────────────

func ledgerEntry(id, user, key string, amount int64) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:             id,
		UserID:         user,
		Amount:         amount,
		Type:           domain.TxStreakReward,
		IdempotencyKey: key,
		CreatedAt:      day(1),
	}
}

func TestInsertLedgerEntry_DuplicateKeySuppressed(t *testing.T) {
	db := testDB(t)

	inserted, err := db.InsertLedgerEntry(ledgerEntry("e1", "u1", "K1", 5))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Fatal("first insert suppressed")
	}

	inserted, err = db.InsertLedgerEntry(ledgerEntry("e2", "u1", "K1", 5))
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if inserted {
		t.Error("duplicate key inserted")
	}

	existing, err := db.LedgerEntryByKey("u1", "K1")
	if err != nil {
		t.Fatalf("by key: %v", err)
	}
	if existing.ID != "e1" {
		t.Errorf("existing.ID = %q, want e1", existing.ID)
	}

	balance, _ := db.LedgerBalance("u1")
	if balance != 5 {
		t.Errorf("balance = %d, want 5", balance)
	}
}

func TestInsertLedgerEntry_NullKeysAppend(t *testing.T) {
	db := testDB(t)

	for i, id := range []string{"e1", "e2"} {
		inserted, err := db.InsertLedgerEntry(ledgerEntry(id, "u1", "", 2))
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if !inserted {
			t.Errorf("key-less insert %d suppressed", i)
		}
	}

	balance, _ := db.LedgerBalance("u1")
	if balance != 4 {
		t.Errorf("balance = %d, want 4", balance)
	}
}

func TestLedgerBalance_EmptyIsZero(t *testing.T) {
	db := testDB(t)
	balance, err := db.LedgerBalance("nobody")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("balance = %d, want 0", balance)
	}
}

// ─── Season counters and announcements ──────────────────────────────────────

func TestIncrementSeasonCounter_CapsAtMaxTotal(t *testing.T) {
	db := testDB(t)

	for want := 1; want <= 3; want++ {
		count, incremented, err := db.IncrementSeasonCounter("u1", "S1", domain.RuleSendPositive, 3)
		if err != nil {
			t.Fatalf("increment %d: %v", want, err)
		}
		if !incremented || count != want {
			t.Errorf("increment %d: got (%d, %v)", want, count, incremented)
		}
	}

	count, incremented, err := db.IncrementSeasonCounter("u1", "S1", domain.RuleSendPositive, 3)
	if err != nil {
		t.Fatalf("increment at cap: %v", err)
	}
	if incremented {
		t.Error("incremented past the cap")
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestIncrementSeasonCounter_ZeroCapNeverPays(t *testing.T) {
	db := testDB(t)
	_, incremented, err := db.IncrementSeasonCounter("u1", "S1", domain.RuleRespond, 0)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if incremented {
		t.Error("incremented with a zero cap")
	}
}

func TestMarkSeasonAnnounced_OncePerUser(t *testing.T) {
	db := testDB(t)

	first, err := db.MarkSeasonAnnounced("u1", "S1", day(1))
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !first {
		t.Error("first mark reported as repeat")
	}

	again, err := db.MarkSeasonAnnounced("u1", "S1", day(2))
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if again {
		t.Error("repeat mark reported as first")
	}

	// Another user is announced independently.
	other, err := db.MarkSeasonAnnounced("u2", "S1", day(1))
	if err != nil {
		t.Fatalf("mark u2: %v", err)
	}
	if !other {
		t.Error("u2 mark reported as repeat")
	}
}

// ─── Notifications ──────────────────────────────────────────────────────────

func TestNotifications_PendingAndShown(t *testing.T) {
	db := testDB(t)

	id, err := db.InsertNotification(notify.Notification{
		UserID:      "u1",
		RewardType:  domain.TxStreakReward,
		Amount:      5,
		Description: "3-Day Presence Streak",
		CreatedAt:   day(1),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	pending, err := db.ListPendingNotifications("u1", 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("pending = %+v", pending)
	}

	if err := db.MarkNotificationShown(id); err != nil {
		t.Fatalf("mark shown: %v", err)
	}
	pending, _ = db.ListPendingNotifications("u1", 10)
	if len(pending) != 0 {
		t.Errorf("pending after shown = %d, want 0", len(pending))
	}
}
