// Package user implements the user contact lookup using PostgreSQL.
package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, email, push_token, chat_id, locale, created_at
  FROM users
 WHERE id = $1`

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByIDSQL, id).Scan(
		&u.ID, &u.Email, &u.PushToken, &u.ChatID, &u.Locale, &u.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "user", id.String())
	}
	return &u, nil
}

const createSQL = `
INSERT INTO users (email, push_token, chat_id, locale)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

// Create inserts a user. The email is normalized to lower case.
func (r *Repo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return nil, domain.NewValidationError("email", "required")
	}
	if u.Locale == "" {
		u.Locale = "en"
	}

	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL,
		u.Email, u.PushToken, u.ChatID, u.Locale,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.Email)
	}
	return &u, nil
}
