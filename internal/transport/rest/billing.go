package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/service/billing"
)

// billingService defines the minimal interface needed by BillingHandler.
type billingService interface {
	Balance(ctx context.Context) (int64, error)
	Usage(ctx context.Context, input billing.UsageInput) (*billing.UsagePage, error)
}

// BillingHandler serves balance and ledger endpoints.
type BillingHandler struct {
	svc billingService
	log *slog.Logger
}

// NewBillingHandler creates a BillingHandler.
func NewBillingHandler(svc billingService, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{svc: svc, log: logger.With("handler", "billing")}
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

type usageResponse struct {
	Items []usageItem `json:"items"`
	Total int         `json:"total"`
}

type usageItem struct {
	ID            string         `json:"id"`
	ActionType    string         `json:"action_type"`
	ProviderUnits int64          `json:"provider_units"`
	Deducted      int64          `json:"deducted"`
	BalanceBefore int64          `json:"balance_before"`
	BalanceAfter  int64          `json:"balance_after"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Balance handles GET /api/billing/balance.
func (h *BillingHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.Balance(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

// Usage handles GET /api/billing/usage?limit=&offset=&action_type=.
func (h *BillingHandler) Usage(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	input := billing.UsageInput{Limit: limit, Offset: offset}
	if v := r.URL.Query().Get("action_type"); v != "" {
		at := domain.ActionType(v)
		input.ActionType = &at
	}

	page, err := h.svc.Usage(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := usageResponse{Items: make([]usageItem, 0, len(page.Items)), Total: page.Total}
	for _, e := range page.Items {
		resp.Items = append(resp.Items, usageItem{
			ID:            e.ID.String(),
			ActionType:    e.ActionType.String(),
			ProviderUnits: e.ProviderUnits,
			Deducted:      e.Deducted,
			BalanceBefore: e.BalanceBefore,
			BalanceAfter:  e.BalanceAfter,
			Metadata:      e.Metadata,
			CreatedAt:     e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
