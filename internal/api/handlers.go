package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

// --- POST /api/activity ---

// recordActivityRequest ingests one activity event. The calendar day
// resolves from date (the caller's local day, "2006-01-02"), then from
// timezone, then from the operator-configured default timezone; with none
// of the three, the event is rejected instead of assuming server UTC.
type recordActivityRequest struct {
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Sentiment string `json:"sentiment,omitempty"`
	Date      string `json:"date,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	RelatedID string `json:"related_id,omitempty"`
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req recordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var date time.Time
	switch {
	case req.Date != "":
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed.UTC()
	case req.Timezone != "":
		date = s.clock.Today(req.Timezone)
	case s.defaultTZ != "":
		date = s.clock.Today(s.defaultTZ)
	}

	err := s.streaks.RecordActivity(domain.Activity{
		UserID:    req.UserID,
		Type:      domain.ActivityType(req.Type),
		Sentiment: domain.Sentiment(req.Sentiment),
		Date:      date,
		RelatedID: req.RelatedID,
	})
	switch {
	case errors.Is(err, domain.ErrUnknownActivity),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrMissingUserID):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state, err := s.streaks.Status(req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// --- GET /api/users/{userID}/streaks ---

func (s *Server) handleStreakStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	state, err := s.streaks.Status(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// --- GET /api/users/{userID}/balance ---

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	balance, err := s.credits.Balance(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"balance": balance,
	})
}

// --- GET /api/users/{userID}/ledger ---

func (s *Server) handleLedgerHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", 50)

	entries, err := s.credits.History(userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"entries": entries,
	})
}

// --- GET /api/users/{userID}/notifications ---

func (s *Server) handlePendingNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", 20)

	notifs, err := s.notifications.Pending(userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":       userID,
		"notifications": notifs,
	})
}

// --- POST /api/notifications/{id}/shown ---

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.notifications.MarkShown(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- GET /api/seasons ---

func (s *Server) handleListSeasons(w http.ResponseWriter, r *http.Request) {
	defs, err := s.seasons.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seasons": defs})
}

// --- POST /api/seasons ---

type createSeasonRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	StartDate string `json:"start_date"` // "2006-01-02"
	EndDate   string `json:"end_date"`
	Active    bool   `json:"active"`
	Rules     []struct {
		Type         string `json:"type"`
		BonusCredits int64  `json:"bonus_credits"`
		MaxTotal     int    `json:"max_total"`
	} `json:"rules"`
}

func (s *Server) handleCreateSeason(w http.ResponseWriter, r *http.Request) {
	var req createSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	def := domain.SeasonDefinition{
		ID:        req.ID,
		Name:      req.Name,
		Year:      req.Year,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		Active:    req.Active,
	}
	for _, rule := range req.Rules {
		def.Rules = append(def.Rules, domain.SeasonRule{
			Type:         domain.SeasonRuleType(rule.Type),
			BonusCredits: rule.BonusCredits,
			MaxTotal:     rule.MaxTotal,
		})
	}

	err = s.seasons.CreateDefinition(def)
	switch {
	case errors.Is(err, domain.ErrSeasonWindowInvalid),
		errors.Is(err, domain.ErrSeasonOverlap),
		errors.Is(err, domain.ErrUnknownSeasonRule),
		errors.Is(err, domain.ErrSeasonExists):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
