// Package logsender is a development delivery provider that writes each
// message to the log instead of sending it.
package logsender

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// Sender logs deliveries. It always succeeds.
type Sender struct {
	log *slog.Logger
}

// NewSender creates a Sender.
func NewSender(logger *slog.Logger) *Sender {
	return &Sender{log: logger.With("adapter", "logsender")}
}

// Send logs d at INFO.
func (s *Sender) Send(ctx context.Context, d domain.Delivery) error {
	s.log.InfoContext(ctx, "notification",
		slog.String("user_id", d.UserID.String()),
		slog.String("channel", d.Channel.String()),
		slog.String("recipient", d.Recipient),
		slog.String("type", string(d.Type)),
		slog.String("priority", string(d.Priority)),
		slog.String("title", d.Title),
		slog.String("body", d.Body))
	return nil
}
