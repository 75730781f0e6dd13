package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/wellnote-backend/internal/auth"
	"github.com/heartmarshall/wellnote-backend/internal/transport/middleware"
)

type tokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// RouterConfig holds the per-route limits and secrets.
type RouterConfig struct {
	CronSecret      string
	AIRatePerMinute int
}

// Handlers groups every endpoint handler served by the router.
type Handlers struct {
	Health        *HealthHandler
	AI            *AIHandler
	Billing       *BillingHandler
	Notifications *NotificationHandler
	Scheduler     *SchedulerHandler
}

// NewRouter builds the HTTP handler tree. Request ID, logging, panic recovery
// and optional bearer auth apply to every route.
func NewRouter(
	logger *slog.Logger,
	h Handlers,
	verifier tokenVerifier,
	limiter *middleware.RateLimiter,
	cfg RouterConfig,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	user := middleware.RequireUser
	mux.Handle("POST /api/ai/execute",
		middleware.Wrap(h.AI.Execute, user, limiter.Limit("ai", cfg.AIRatePerMinute)))

	mux.Handle("GET /api/billing/balance", middleware.Wrap(h.Billing.Balance, user))
	mux.Handle("GET /api/billing/usage", middleware.Wrap(h.Billing.Usage, user))

	mux.Handle("GET /api/notifications/preferences", middleware.Wrap(h.Notifications.GetPreferences, user))
	mux.Handle("PUT /api/notifications/preferences", middleware.Wrap(h.Notifications.UpdatePreferences, user))
	mux.Handle("GET /api/notifications/history", middleware.Wrap(h.Notifications.ListHistory, user))

	mux.Handle("POST /internal/scheduler/tick",
		middleware.Wrap(h.Scheduler.Tick, middleware.CronSecret(cfg.CronSecret)))

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Auth(verifier),
		middleware.Metrics,
	)(mux)
}
