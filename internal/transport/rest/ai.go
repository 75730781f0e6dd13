package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/provider"
	"github.com/heartmarshall/wellnote-backend/internal/service/aiexec"
	"github.com/heartmarshall/wellnote-backend/pkg/ctxutil"
)

// aiExecutor defines the minimal interface needed by AIHandler.
type aiExecutor interface {
	Execute(ctx context.Context, in aiexec.ExecuteInput) aiexec.Result
}

// AIHandler serves the metered AI endpoint.
type AIHandler struct {
	exec aiExecutor
	log  *slog.Logger
}

// NewAIHandler creates an AIHandler.
func NewAIHandler(exec aiExecutor, logger *slog.Logger) *AIHandler {
	return &AIHandler{exec: exec, log: logger.With("handler", "ai")}
}

type executeRequest struct {
	ActionType string             `json:"action_type"`
	System     string             `json:"system"`
	Messages   []provider.Message `json:"messages"`
	Options    executeOptions     `json:"options"`
	Metadata   map[string]any     `json:"metadata"`
}

type executeOptions struct {
	Model            string   `json:"model"`
	MaxOutputTokens  int64    `json:"max_output_tokens"`
	Temperature      *float64 `json:"temperature"`
	StructuredOutput bool     `json:"structured_output"`
}

// Execute handles POST /api/ai/execute. The result envelope is returned for
// every outcome; the status code reflects its error kind.
func (h *AIHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		handleError(h.log, w, r, domain.ErrUnauthorized)
		return
	}

	var req executeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	locale := ctxutil.LocaleFromCtx(ctx)
	result := h.exec.Execute(ctx, aiexec.ExecuteInput{
		UserID:     userID,
		ActionType: domain.ActionType(req.ActionType),
		System:     req.System,
		Messages:   req.Messages,
		Options: aiexec.Options{
			Model:            req.Options.Model,
			MaxOutputTokens:  req.Options.MaxOutputTokens,
			Temperature:      req.Options.Temperature,
			StructuredOutput: req.Options.StructuredOutput,
			Locale:           locale,
		},
		Metadata: req.Metadata,
	})

	writeJSON(w, statusForResult(result), result)
}

func statusForResult(res aiexec.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case aiexec.KindValidation:
		return http.StatusBadRequest
	case aiexec.KindInsufficientBalance:
		return http.StatusPaymentRequired
	case aiexec.KindProviderFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
