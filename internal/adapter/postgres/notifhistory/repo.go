// Package notifhistory implements the append-only notification history using PostgreSQL.
package notifhistory

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// Repo provides notification history persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new history repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const appendSQL = `
INSERT INTO notification_history (user_id, channel, type, title, message, status, sent_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

// Append records one delivery attempt. A zero SentAt is stored as now.
func (r *Repo) Append(ctx context.Context, e domain.NotificationHistoryEntry) (*domain.NotificationHistoryEntry, error) {
	if e.SentAt.IsZero() {
		e.SentAt = time.Now().UTC()
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	err := q.QueryRow(ctx, appendSQL,
		e.UserID, string(e.Channel), string(e.Type), e.Title, e.Message, string(e.Status), e.SentAt,
	).Scan(&e.ID)
	if err != nil {
		return nil, postgres.MapError(err, "notification_history", e.UserID.String())
	}

	return &e, nil
}

const lastSentSQL = `
SELECT sent_at FROM notification_history
 WHERE user_id = $1 AND channel = $2 AND status = 'sent'
 ORDER BY sent_at DESC
 LIMIT 1`

// LastSent returns the time of the most recent successful delivery on ch, or
// nil when there has been none. Failed attempts are ignored.
func (r *Repo) LastSent(ctx context.Context, userID uuid.UUID, ch domain.Channel) (*time.Time, error) {
	var at time.Time
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, lastSentSQL, userID, string(ch)).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, "notification_history", userID.String())
	}
	return &at, nil
}

// ListByUser returns the user's history newest first, optionally for one channel.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, ch *domain.Channel, limit int) ([]domain.NotificationHistoryEntry, error) {
	b := postgres.Builder().
		Select("id", "user_id", "channel", "type", "title", "message", "status", "sent_at").
		From("notification_history").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("sent_at DESC", "id DESC")
	if ch != nil {
		b = b.Where(sq.Eq{"channel": string(*ch)})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("notifhistory.ListByUser: build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "notification_history", userID.String())
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.NotificationHistoryEntry, error) {
		var (
			e                   domain.NotificationHistoryEntry
			channel, typ, state string
		)
		err := row.Scan(&e.ID, &e.UserID, &channel, &typ, &e.Title, &e.Message, &state, &e.SentAt)
		e.Channel = domain.Channel(channel)
		e.Type = domain.InsightType(typ)
		e.Status = domain.DeliveryStatus(state)
		return e, err
	})
	if err != nil {
		return nil, postgres.MapError(err, "notification_history", userID.String())
	}
	return entries, nil
}
