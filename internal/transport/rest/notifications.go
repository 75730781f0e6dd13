package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/service/notification"
)

// notificationService defines the minimal interface needed by NotificationHandler.
type notificationService interface {
	GetPreferences(ctx context.Context) (*domain.NotificationPreference, error)
	UpdatePreferences(ctx context.Context, input notification.UpdatePreferencesInput) (*domain.NotificationPreference, error)
	ListHistory(ctx context.Context, ch *domain.Channel, limit int) ([]domain.NotificationHistoryEntry, error)
}

// NotificationHandler serves preference and history endpoints.
type NotificationHandler struct {
	svc notificationService
	log *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: logger.With("handler", "notifications")}
}

type preferencesResponse struct {
	Email      domain.ChannelPreference `json:"email"`
	Push       domain.ChannelPreference `json:"push"`
	Chat       domain.ChannelPreference `json:"chat"`
	Categories domain.Categories        `json:"categories"`
	Timezone   string                   `json:"timezone"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

type channelPatchRequest struct {
	Enabled       *bool             `json:"enabled"`
	Frequency     *domain.Frequency `json:"frequency"`
	PreferredTime *string           `json:"preferred_time"`
}

type categoriesPatchRequest struct {
	Reminders      *bool `json:"reminders"`
	Insights       *bool `json:"insights"`
	Encouragements *bool `json:"encouragements"`
	Warnings       *bool `json:"warnings"`
}

type updatePreferencesRequest struct {
	Email      *channelPatchRequest    `json:"email"`
	Push       *channelPatchRequest    `json:"push"`
	Chat       *channelPatchRequest    `json:"chat"`
	Categories *categoriesPatchRequest `json:"categories"`
	Timezone   *string                 `json:"timezone"`
}

type historyItem struct {
	ID      string    `json:"id"`
	Channel string    `json:"channel"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Status  string    `json:"status"`
	SentAt  time.Time `json:"sent_at"`
}

type historyResponse struct {
	Items []historyItem `json:"items"`
}

// GetPreferences handles GET /api/notifications/preferences.
func (h *NotificationHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	pref, err := h.svc.GetPreferences(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreferencesResponse(pref))
}

// UpdatePreferences handles PUT /api/notifications/preferences. Omitted
// fields keep their stored values.
func (h *NotificationHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	input := notification.UpdatePreferencesInput{
		Email:    toChannelPatch(req.Email),
		Push:     toChannelPatch(req.Push),
		Chat:     toChannelPatch(req.Chat),
		Timezone: req.Timezone,
	}
	if c := req.Categories; c != nil {
		input.Categories = &notification.CategoriesPatch{
			Reminders:      c.Reminders,
			Insights:       c.Insights,
			Encouragements: c.Encouragements,
			Warnings:       c.Warnings,
		}
	}

	pref, err := h.svc.UpdatePreferences(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreferencesResponse(pref))
}

// ListHistory handles GET /api/notifications/history?channel=&limit=.
func (h *NotificationHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var ch *domain.Channel
	if v := r.URL.Query().Get("channel"); v != "" {
		c := domain.Channel(v)
		ch = &c
	}

	entries, err := h.svc.ListHistory(r.Context(), ch, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := historyResponse{Items: make([]historyItem, 0, len(entries))}
	for _, e := range entries {
		resp.Items = append(resp.Items, historyItem{
			ID:      e.ID.String(),
			Channel: e.Channel.String(),
			Type:    string(e.Type),
			Title:   e.Title,
			Message: e.Message,
			Status:  string(e.Status),
			SentAt:  e.SentAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func toChannelPatch(p *channelPatchRequest) *notification.ChannelPatch {
	if p == nil {
		return nil
	}
	return &notification.ChannelPatch{
		Enabled:       p.Enabled,
		Frequency:     p.Frequency,
		PreferredTime: p.PreferredTime,
	}
}

func toPreferencesResponse(p *domain.NotificationPreference) preferencesResponse {
	return preferencesResponse{
		Email:      p.Email,
		Push:       p.Push,
		Chat:       p.Chat,
		Categories: p.Categories,
		Timezone:   p.Timezone,
		UpdatedAt:  p.UpdatedAt,
	}
}
