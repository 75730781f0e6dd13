// Package notifpref implements the notification preference store using PostgreSQL.
package notifpref

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// Repo provides notification preference persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new preference repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT user_id, email, push, chat, categories, timezone, created_at, updated_at
  FROM notification_preferences
 WHERE user_id = $1`

// Get returns the stored preference. Returns domain.ErrNotFound when the user has none.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		p                             domain.NotificationPreference
		email, push, chat, categories []byte
	)
	err := q.QueryRow(ctx, getSQL, userID).Scan(
		&p.UserID, &email, &push, &chat, &categories, &p.Timezone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "notification_preference", userID.String())
	}

	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{email, &p.Email},
		{push, &p.Push},
		{chat, &p.Chat},
		{categories, &p.Categories},
	} {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("notifpref.Get: decode %s: %w", userID, err)
		}
	}

	return &p, nil
}

const upsertSQL = `
INSERT INTO notification_preferences (user_id, email, push, chat, categories, timezone)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE
   SET email = EXCLUDED.email,
       push = EXCLUDED.push,
       chat = EXCLUDED.chat,
       categories = EXCLUDED.categories,
       timezone = EXCLUDED.timezone,
       updated_at = now()
RETURNING created_at, updated_at`

// Upsert stores the complete preference for p.UserID.
func (r *Repo) Upsert(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error) {
	encoded, err := encode(p)
	if err != nil {
		return nil, fmt.Errorf("notifpref.Upsert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	err = q.QueryRow(ctx, upsertSQL,
		p.UserID, encoded[0], encoded[1], encoded[2], encoded[3], p.Timezone,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "notification_preference", p.UserID.String())
	}

	return &p, nil
}

// InsertDefault stores p only when the user has no preference yet and returns
// the row that is stored afterwards.
func (r *Repo) InsertDefault(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error) {
	encoded, err := encode(p)
	if err != nil {
		return nil, fmt.Errorf("notifpref.InsertDefault: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	_, err = q.Exec(ctx,
		`INSERT INTO notification_preferences (user_id, email, push, chat, categories, timezone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO NOTHING`,
		p.UserID, encoded[0], encoded[1], encoded[2], encoded[3], p.Timezone,
	)
	if err != nil {
		return nil, postgres.MapError(err, "notification_preference", p.UserID.String())
	}

	return r.Get(ctx, p.UserID)
}

// ListUserIDs returns user ids having a preference row, ordered by id, in
// pages of limit after the given cursor (uuid.Nil for the first page).
func (r *Repo) ListUserIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	b := postgres.Builder().
		Select("user_id").
		From("notification_preferences").
		OrderBy("user_id")
	if after != uuid.Nil {
		b = b.Where(sq.Gt{"user_id": after})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("notifpref.ListUserIDs: build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "notification_preference", "")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, postgres.MapError(err, "notification_preference", "")
	}
	return ids, nil
}

// encode marshals the jsonb columns in table order: email, push, chat, categories.
func encode(p domain.NotificationPreference) ([][]byte, error) {
	out := make([][]byte, 0, 4)
	for _, v := range []any{p.Email, p.Push, p.Chat, p.Categories} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}
