// Package reconciliation stores provider costs that could not be charged.
package reconciliation

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// Repo provides reconciliation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reconciliation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO usage_reconciliation (user_id, action_type, provider_units, amount, reason, detail)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

// Record appends a reconciliation row. It always writes through the pool so a
// rolled-back caller transaction cannot discard it.
func (r *Repo) Record(ctx context.Context, rec domain.ReconciliationRecord) (*domain.ReconciliationRecord, error) {
	err := r.pool.QueryRow(ctx, insertSQL,
		rec.UserID, string(rec.ActionType), rec.ProviderUnits, rec.Amount, string(rec.Reason), rec.Detail,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "usage_reconciliation", rec.UserID.String())
	}
	return &rec, nil
}

// List returns the most recent reconciliation rows, optionally for one reason.
func (r *Repo) List(ctx context.Context, reason *domain.ReconciliationReason, limit int) ([]domain.ReconciliationRecord, error) {
	b := postgres.Builder().
		Select("id", "user_id", "action_type", "provider_units", "amount", "reason", "detail", "created_at").
		From("usage_reconciliation").
		OrderBy("created_at DESC")
	if reason != nil {
		b = b.Where(sq.Eq{"reason": string(*reason)})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("reconciliation.List: build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "usage_reconciliation", "")
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ReconciliationRecord, error) {
		var (
			rec            domain.ReconciliationRecord
			action, reason string
		)
		err := row.Scan(&rec.ID, &rec.UserID, &action, &rec.ProviderUnits, &rec.Amount, &reason, &rec.Detail, &rec.CreatedAt)
		rec.ActionType = domain.ActionType(action)
		rec.Reason = domain.ReconciliationReason(reason)
		return rec, err
	})
}
