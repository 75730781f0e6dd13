// Package observability holds the process-wide Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wellnote"

// ─── AI execution ───────────────────────────────────────────────────────────

// AIExecutions counts orchestrator calls by action type and outcome
// (success, insufficient_balance, provider_failure, persistence_failure, validation).
var AIExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ai",
	Name:      "executions_total",
	Help:      "Total AI executions by action type and outcome.",
}, []string{"action", "outcome"})

// AITokensDeducted sums tokens charged to users.
var AITokensDeducted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ai",
	Name:      "tokens_deducted_total",
	Help:      "Total platform tokens deducted by action type.",
}, []string{"action"})

// AIProviderUnits sums raw provider usage units.
var AIProviderUnits = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ai",
	Name:      "provider_units_total",
	Help:      "Total provider usage units consumed by action type.",
}, []string{"action"})

// AIProviderLatency observes provider call duration.
var AIProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "ai",
	Name:      "provider_latency_seconds",
	Help:      "Language-model provider call latency.",
	Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
}, []string{"action"})

// BillingReconciliations counts provider costs that were not charged.
var BillingReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "billing",
	Name:      "reconciliations_total",
	Help:      "Total sunk provider costs requiring reconciliation, by reason.",
}, []string{"reason"})

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationsDelivered counts delivery attempts by channel and status.
var NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "notifications",
	Name:      "deliveries_total",
	Help:      "Total notification delivery attempts by channel and status.",
}, []string{"channel", "status"})

// NotificationsSkipped counts (user, channel) pairs skipped by reason.
var NotificationsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "notifications",
	Name:      "skipped_total",
	Help:      "Total skipped notification decisions by reason.",
}, []string{"reason"})

// SchedulerTickDuration observes full tick duration.
var SchedulerTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "scheduler",
	Name:      "tick_duration_seconds",
	Help:      "Scheduler tick duration.",
	Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
})

// SchedulerUnstartedUsers counts users left unprocessed because the budget ran out.
var SchedulerUnstartedUsers = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scheduler",
	Name:      "unstarted_users_total",
	Help:      "Total users not started because the tick budget was exhausted.",
})

// SchedulerUserPanics counts per-user panics contained by the scheduler.
var SchedulerUserPanics = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scheduler",
	Name:      "user_panics_total",
	Help:      "Total panics recovered while processing a single user.",
})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequestDuration observes request latency by route pattern and status.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route pattern and status code.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "status"})
