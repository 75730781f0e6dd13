// Package notification owns notification preferences, the per-channel send
// decision and the scheduler tick that turns decisions into deliveries.
package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// prefStore defines the preference repository interface needed by the service.
type prefStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error)
	Upsert(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error)
	InsertDefault(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error)
}

// historyStore defines the history repository interface needed by the service.
type historyStore interface {
	Append(ctx context.Context, e domain.NotificationHistoryEntry) (*domain.NotificationHistoryEntry, error)
	LastSent(ctx context.Context, userID uuid.UUID, ch domain.Channel) (*time.Time, error)
	ListByUser(ctx context.Context, userID uuid.UUID, ch *domain.Channel, limit int) ([]domain.NotificationHistoryEntry, error)
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the preference and history operations exposed to users.
type Service struct {
	log     *slog.Logger
	prefs   prefStore
	history historyStore
	tx      txManager
}

// NewService creates a new notification service instance.
func NewService(
	logger *slog.Logger,
	prefs prefStore,
	history historyStore,
	tx txManager,
) *Service {
	return &Service{
		log:     logger.With("service", "notification"),
		prefs:   prefs,
		history: history,
		tx:      tx,
	}
}
