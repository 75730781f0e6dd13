package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/pkg/ctxutil"
)

// GetPreferences returns the authenticated user's preferences, creating the
// defaults on first access.
func (s *Service) GetPreferences(ctx context.Context) (*domain.NotificationPreference, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	pref, err := s.getOrDefault(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notification.GetPreferences: %w", err)
	}
	return pref, nil
}

// UpdatePreferences applies a partial update to the authenticated user's preferences.
func (s *Service) UpdatePreferences(ctx context.Context, input UpdatePreferencesInput) (*domain.NotificationPreference, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var updated *domain.NotificationPreference
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.getOrDefault(txCtx, userID)
		if err != nil {
			return fmt.Errorf("get current preferences: %w", err)
		}

		updated, err = s.prefs.Upsert(txCtx, input.apply(*current))
		if err != nil {
			return fmt.Errorf("upsert preferences: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("notification.UpdatePreferences: %w", err)
	}

	s.log.InfoContext(ctx, "notification preferences updated",
		slog.String("user_id", userID.String()),
		slog.String("timezone", updated.Timezone))

	return updated, nil
}

// ListHistory returns the authenticated user's delivery history, newest first.
// A nil channel lists every channel.
func (s *Service) ListHistory(ctx context.Context, ch *domain.Channel, limit int) ([]domain.NotificationHistoryEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if ch != nil && !ch.IsValid() {
		return nil, domain.NewValidationError("channel", "must be email, push or chat")
	}

	entries, err := s.history.ListByUser(ctx, userID, ch, clampHistoryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("notification.ListHistory: %w", err)
	}
	return entries, nil
}

func (s *Service) getOrDefault(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	pref, err := s.prefs.Get(ctx, userID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	pref, err = s.prefs.InsertDefault(ctx, domain.DefaultNotificationPreference(userID))
	if err != nil {
		return nil, fmt.Errorf("insert default preferences: %w", err)
	}
	s.log.InfoContext(ctx, "default notification preferences created",
		slog.String("user_id", userID.String()))
	return pref, nil
}
