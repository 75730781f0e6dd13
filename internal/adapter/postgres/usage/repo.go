// Package usage implements the append-only usage ledger using PostgreSQL.
package usage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

var columns = []string{
	"id", "user_id", "action_type", "provider_units", "deducted",
	"balance_before", "balance_after", "metadata", "created_at",
}

// Repo provides usage ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new usage ledger repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Append inserts an immutable ledger row and returns it with ID and CreatedAt set.
func (r *Repo) Append(ctx context.Context, entry domain.UsageLedgerEntry) (*domain.UsageLedgerEntry, error) {
	if !entry.IsConsistent() {
		return nil, domain.NewValidationError("ledger", "balance_after must equal balance_before - deducted and be >= 0")
	}

	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	query, args, err := postgres.Builder().
		Insert("usage_ledger").
		Columns("user_id", "action_type", "provider_units", "deducted", "balance_before", "balance_after", "metadata").
		Values(entry.UserID, string(entry.ActionType), entry.ProviderUnits, entry.Deducted,
			entry.BalanceBefore, entry.BalanceAfter, metadata).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("usage.Append: build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if err := q.QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "usage_ledger", entry.UserID.String())
	}

	entry.Metadata = metadata
	return &entry, nil
}

// ListByUser returns ledger rows for userID, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, f domain.UsageFilter) ([]domain.UsageLedgerEntry, error) {
	b := postgres.Builder().
		Select(columns...).
		From("usage_ledger").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
	if f.ActionType != nil {
		b = b.Where(sq.Eq{"action_type": string(*f.ActionType)})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("usage.ListByUser: build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "usage_ledger", userID.String())
	}

	entries, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, postgres.MapError(err, "usage_ledger", userID.String())
	}
	return entries, nil
}

// CountByUser returns the number of ledger rows for userID, optionally
// restricted to one action type.
func (r *Repo) CountByUser(ctx context.Context, userID uuid.UUID, actionType *domain.ActionType) (int, error) {
	b := postgres.Builder().
		Select("count(*)").
		From("usage_ledger").
		Where(sq.Eq{"user_id": userID})
	if actionType != nil {
		b = b.Where(sq.Eq{"action_type": string(*actionType)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("usage.CountByUser: build query: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "usage_ledger", userID.String())
	}
	return n, nil
}

func scanEntry(row pgx.CollectableRow) (domain.UsageLedgerEntry, error) {
	var (
		e      domain.UsageLedgerEntry
		action string
	)
	err := row.Scan(&e.ID, &e.UserID, &action, &e.ProviderUnits, &e.Deducted,
		&e.BalanceBefore, &e.BalanceAfter, &e.Metadata, &e.CreatedAt)
	e.ActionType = domain.ActionType(action)
	return e, err
}
