package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/service/notification"
)

// tickRunner defines the minimal interface needed by SchedulerHandler.
type tickRunner interface {
	RunTick(ctx context.Context, now time.Time) (*notification.Summary, error)
}

// SchedulerHandler exposes the notification tick to the external cron.
type SchedulerHandler struct {
	runner tickRunner
	now    func() time.Time
	log    *slog.Logger
}

// NewSchedulerHandler creates a SchedulerHandler.
func NewSchedulerHandler(runner tickRunner, logger *slog.Logger) *SchedulerHandler {
	return &SchedulerHandler{runner: runner, now: time.Now, log: logger.With("handler", "scheduler")}
}

// Tick handles POST /internal/scheduler/tick. The optional "at" query
// parameter (RFC 3339) replays a tick for a past instant. Future instants
// are rejected: their history rows would hold off real sends.
func (h *SchedulerHandler) Tick(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	if v := r.URL.Query().Get("at"); v != "" {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("at", "must be an RFC 3339 timestamp"))
			return
		}
		if at.After(now) {
			handleError(h.log, w, r, domain.NewValidationError("at", "must not be in the future"))
			return
		}
		now = at
	}

	summary, err := h.runner.RunTick(r.Context(), now.UTC())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
