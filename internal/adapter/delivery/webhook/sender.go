// Package webhook delivers notifications by POSTing JSON to an external
// delivery gateway that fans out to email, push and chat.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "wellnote-backend/notifications"
	maxErrorBody   = 512
)

// ErrRejected is returned when the gateway answers with a non-2xx status.
var ErrRejected = errors.New("webhook: delivery rejected")

// Sender posts deliveries to a gateway URL. It never retries: the scheduler
// records a failed attempt and moves on.
type Sender struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewSender creates a Sender. A non-positive timeout falls back to 10s.
func NewSender(url string, timeout time.Duration, logger *slog.Logger) *Sender {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Sender{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "webhook"),
	}
}

// Send posts d as JSON. Any 2xx status counts as delivered.
func (s *Sender) Send(ctx context.Context, d domain.Delivery) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("webhook: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	s.log.DebugContext(ctx, "webhook delivered",
		slog.String("user_id", d.UserID.String()),
		slog.String("channel", d.Channel.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	return nil
}
