package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/api"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/credit"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/notify"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/reward"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/season"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/streak"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/infra/sqlite"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Today(tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}
	return domain.DateOf(c.now, loc)
}

// testServer wires a full engine over a temp database behind httptest.
// defaultTZ "" leaves the configured-default-timezone fallback off.
func testServer(t *testing.T, clock *fakeClock, defaultTZ string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	notifications := notify.NewService(db, clock)
	credits := credit.NewService(db, notifications, clock)
	milestones := reward.NewMilestoneEvaluator(credits, reward.DefaultMilestones())
	consistency := reward.NewConsistencyEvaluator(credits)
	seasons := season.NewEngine(db, credits)
	streaks := streak.NewService(db, milestones, consistency, seasons, clock)

	srv := api.NewServer(streaks, credits, seasons, notifications, clock)
	srv.SetDefaultTimezone(defaultTZ)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRecordActivityEndpoint(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	ts := testServer(t, clock, "")

	resp := postJSON(t, ts.URL+"/api/activity", map[string]any{
		"user_id": "u1",
		"type":    "PRESENCE_OPEN",
		"date":    "2026-03-10",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var state domain.UserStreakState
	decode(t, resp, &state)
	if state.Presence.Count != 1 {
		t.Errorf("Presence.Count = %d, want 1", state.Presence.Count)
	}
}

func TestRecordActivityEndpoint_TimezoneResolution(t *testing.T) {
	// 02:00 UTC on March 10 is still March 9 in New York.
	clock := &fakeClock{now: time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)}
	ts := testServer(t, clock, "")

	resp := postJSON(t, ts.URL+"/api/activity", map[string]any{
		"user_id":  "u1",
		"type":     "PRESENCE_OPEN",
		"timezone": "America/New_York",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var state domain.UserStreakState
	decode(t, resp, &state)
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !state.Presence.LastActiveDate.Equal(want) {
		t.Errorf("LastActiveDate = %v, want %v", state.Presence.LastActiveDate, want)
	}
}

func TestRecordActivityEndpoint_DefaultTimezone(t *testing.T) {
	// No date and no timezone on the request: the server falls back to the
	// configured default. 02:00 UTC on March 10 is still March 9 in New York.
	clock := &fakeClock{now: time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)}
	ts := testServer(t, clock, "America/New_York")

	resp := postJSON(t, ts.URL+"/api/activity", map[string]any{
		"user_id": "u1",
		"type":    "PRESENCE_OPEN",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var state domain.UserStreakState
	decode(t, resp, &state)
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !state.Presence.LastActiveDate.Equal(want) {
		t.Errorf("LastActiveDate = %v, want %v", state.Presence.LastActiveDate, want)
	}
}

func TestRecordActivityEndpoint_Validation(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	ts := testServer(t, clock, "")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing user", map[string]any{"type": "PRESENCE_OPEN", "date": "2026-03-10"}},
		{"unknown type", map[string]any{"user_id": "u1", "type": "JUMPED", "date": "2026-03-10"}},
		{"no date or timezone", map[string]any{"user_id": "u1", "type": "PRESENCE_OPEN"}},
		{"bad date format", map[string]any{"user_id": "u1", "type": "PRESENCE_OPEN", "date": "03/10/2026"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/activity", tc.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestStreaksAndBalanceEndpoints(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	ts := testServer(t, clock, "")

	// Three consecutive presence days: the 3-day milestone pays 5 credits.
	for i := 0; i < 3; i++ {
		d := clock.now.AddDate(0, 0, i)
		resp := postJSON(t, ts.URL+"/api/activity", map[string]any{
			"user_id": "u1",
			"type":    "PRESENCE_OPEN",
			"date":    d.Format("2006-01-02"),
		})
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/users/u1/streaks")
	if err != nil {
		t.Fatalf("get streaks: %v", err)
	}
	var state domain.UserStreakState
	decode(t, resp, &state)
	if state.Presence.Count != 3 {
		t.Errorf("Presence.Count = %d, want 3", state.Presence.Count)
	}

	resp, err = http.Get(ts.URL + "/api/users/u1/balance")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	var balance struct {
		UserID  string `json:"user_id"`
		Balance int64  `json:"balance"`
	}
	decode(t, resp, &balance)
	if balance.Balance != 5 {
		t.Errorf("balance = %d, want 5", balance.Balance)
	}

	resp, err = http.Get(ts.URL + "/api/users/u1/ledger")
	if err != nil {
		t.Fatalf("get ledger: %v", err)
	}
	var ledger struct {
		Entries []domain.LedgerEntry `json:"entries"`
	}
	decode(t, resp, &ledger)
	if len(ledger.Entries) != 1 {
		t.Errorf("ledger entries = %d, want 1", len(ledger.Entries))
	}
}

func TestSeasonEndpoints(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC)}
	ts := testServer(t, clock, "")

	def := map[string]any{
		"id":         "VALENTINE_2026",
		"name":       "Valentine",
		"year":       2026,
		"start_date": "2026-02-10",
		"end_date":   "2026-02-16",
		"active":     true,
		"rules": []map[string]any{
			{"type": "SEND_POSITIVE", "bonus_credits": 10, "max_total": 3},
		},
	}
	resp := postJSON(t, ts.URL+"/api/seasons/", def)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	// Overlapping active season of the same year conflicts.
	overlap := map[string]any{
		"id":         "LOVE_WEEK_2026",
		"name":       "Love Week",
		"year":       2026,
		"start_date": "2026-02-14",
		"end_date":   "2026-02-20",
		"active":     true,
	}
	resp = postJSON(t, ts.URL+"/api/seasons/", overlap)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("overlap status = %d, want 409", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/seasons/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list struct {
		Seasons []domain.SeasonDefinition `json:"seasons"`
	}
	decode(t, resp, &list)
	if len(list.Seasons) != 1 || list.Seasons[0].ID != "VALENTINE_2026" {
		t.Errorf("seasons = %+v", list.Seasons)
	}

	// An in-window positive message pays the seasonal bonus.
	resp = postJSON(t, ts.URL+"/api/activity", map[string]any{
		"user_id":   "u1",
		"type":      "MESSAGE_SENT",
		"sentiment": "POSITIVE",
		"date":      "2026-02-12",
	})
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/users/u1/balance")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	var balance struct {
		Balance int64 `json:"balance"`
	}
	decode(t, resp, &balance)
	if balance.Balance != 10 {
		t.Errorf("balance = %d, want 10 (seasonal bonus)", balance.Balance)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	ts := testServer(t, clock, "")

	// Reach the 3-day presence milestone to queue one notification.
	for i := 0; i < 3; i++ {
		d := clock.now.AddDate(0, 0, i)
		resp := postJSON(t, ts.URL+"/api/activity", map[string]any{
			"user_id": "u1",
			"type":    "PRESENCE_OPEN",
			"date":    d.Format("2006-01-02"),
		})
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/users/u1/notifications")
	if err != nil {
		t.Fatalf("get notifications: %v", err)
	}
	var pending struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	decode(t, resp, &pending)
	if len(pending.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(pending.Notifications))
	}

	id := pending.Notifications[0].ID
	resp = postJSON(t, ts.URL+"/api/notifications/"+strconv.FormatInt(id, 10)+"/shown", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mark shown status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/users/u1/notifications")
	if err != nil {
		t.Fatalf("get notifications: %v", err)
	}
	decode(t, resp, &pending)
	if len(pending.Notifications) != 0 {
		t.Errorf("notifications after shown = %d, want 0", len(pending.Notifications))
	}
}

func TestHealthEndpoint(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	ts := testServer(t, clock, "")

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
