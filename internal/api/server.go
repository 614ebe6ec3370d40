// Package api provides the HTTP server for the Echo reward engine.
// It exposes activity ingestion, streak status, the reward ledger, and
// seasonal campaign administration.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/credit"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/notify"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/season"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/streak"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/health"
)

// Server is the Echo HTTP API server.
type Server struct {
	streaks        *streak.Service
	credits        *credit.Service
	seasons        *season.Engine
	notifications  *notify.Service
	clock          domain.Clock
	health         *health.Checker
	defaultTZ      string
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(streaks *streak.Service, credits *credit.Service, seasons *season.Engine, notifications *notify.Service, clock domain.Clock) *Server {
	return &Server{
		streaks:       streaks,
		credits:       credits,
		seasons:       seasons,
		notifications: notifications,
		clock:         clock,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker sets the health checker surfaced on /health.
func (s *Server) SetHealthChecker(h *health.Checker) { s.health = h }

// SetDefaultTimezone sets the IANA timezone used to resolve an activity's
// calendar day when a request carries neither a date nor a timezone.
func (s *Server) SetDefaultTimezone(tz string) { s.defaultTZ = tz }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/activity", s.handleRecordActivity)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/streaks", s.handleStreakStatus)
			r.Get("/balance", s.handleBalance)
			r.Get("/ledger", s.handleLedgerHistory)
			r.Get("/notifications", s.handlePendingNotifications)
		})
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)

		r.Route("/seasons", func(r chi.Router) {
			r.Get("/", s.handleListSeasons)
			r.Post("/", s.handleCreateSeason)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	code := http.StatusOK
	if !s.health.IsHealthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": http.StatusText(code),
		"checks": s.health.Statuses(),
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the app shell.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
