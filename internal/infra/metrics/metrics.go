// Package metrics provides Prometheus metrics for the Echo reward engine —
// counters for activity ingestion, streak transitions, reward grants, and
// the seasonal sweep.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Activity ───────────────────────────────────────────────────────────────

// ActivitiesRecorded tracks ingested activity events by type.
var ActivitiesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "activities_recorded_total",
	Help:      "Total activity events recorded.",
}, []string{"type"})

// ActivitiesRejected tracks events failing validation.
var ActivitiesRejected = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "activities_rejected_total",
	Help:      "Total activity events rejected before any state mutation.",
})

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreaksExtended tracks streak continuations by track.
var StreaksExtended = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "streaks_extended_total",
	Help:      "Total streak-day extensions.",
}, []string{"track"})

// StreaksBroken tracks streak resets by track.
var StreaksBroken = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "streaks_broken_total",
	Help:      "Total streak breaks.",
}, []string{"track"})

// GraceConsumed tracks grace-period rescues of the presence track.
var GraceConsumed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "grace_consumed_total",
	Help:      "Total grace-period rescues.",
})

// StateConflicts tracks optimistic-concurrency retries on streak rows.
var StateConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "streak_state_conflicts_total",
	Help:      "Total stale-state conflicts retried on streak saves.",
})

// ─── Rewards ────────────────────────────────────────────────────────────────

// RewardsGranted tracks newly recorded ledger entries by type.
var RewardsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "rewards_granted_total",
	Help:      "Total rewards recorded in the ledger.",
}, []string{"type"})

// RewardsSuppressed tracks idempotent duplicate no-ops.
var RewardsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "rewards_suppressed_total",
	Help:      "Total duplicate rewards suppressed by idempotency keys.",
})

// CreditsAwarded tracks total credits paid out.
var CreditsAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "credits_awarded_total",
	Help:      "Total credits awarded.",
})

// EvaluatorFailures tracks non-fatal reward evaluation failures.
var EvaluatorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "evaluator_failures_total",
	Help:      "Total swallowed reward evaluation failures.",
}, []string{"evaluator"})

// NotifyFailures tracks best-effort notification dispatch failures.
var NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "notify_failures_total",
	Help:      "Total reward notification failures (logged and swallowed).",
})

// ─── Seasonal Sweep ─────────────────────────────────────────────────────────

// SweepUsers tracks users visited by the season-start sweep.
var SweepUsers = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "season_sweep_users_total",
	Help:      "Total users processed by the seasonal sweep.",
})

// SweepErrors tracks isolated per-user sweep failures.
var SweepErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "season_sweep_errors_total",
	Help:      "Total per-user sweep failures (isolated, logged).",
})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "echo",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})
