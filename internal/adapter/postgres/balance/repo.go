// Package balance implements the token balance store using PostgreSQL.
package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// Repo provides token balance persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new balance repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getBalanceSQL = `SELECT balance FROM token_balances WHERE user_id = $1`

// GetBalance returns the current balance. A user without a balance row has 0.
func (r *Repo) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var balance int64
	err := q.QueryRow(ctx, getBalanceSQL, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, postgres.MapError(err, "token_balance", userID.String())
	}

	return balance, nil
}

// tryDeductSQL decrements the balance only when it covers amount. The row lock
// taken by UPDATE serializes concurrent deductions for the same user.
const tryDeductSQL = `
UPDATE token_balances
   SET balance = balance - $2, updated_at = now()
 WHERE user_id = $1 AND balance >= $2
RETURNING balance + $2, balance`

// TryDeduct atomically subtracts amount from the balance. When the balance is
// missing or lower than amount, Success is false and nothing changes; the
// returned BalanceBefore/After then both hold the current balance.
func (r *Repo) TryDeduct(ctx context.Context, userID uuid.UUID, amount int64) (domain.DeductResult, error) {
	if amount < 0 {
		return domain.DeductResult{}, domain.NewValidationError("amount", "must be >= 0")
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var res domain.DeductResult
	err := q.QueryRow(ctx, tryDeductSQL, userID, amount).Scan(&res.BalanceBefore, &res.BalanceAfter)
	if err == nil {
		res.Success = true
		return res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.DeductResult{}, postgres.MapError(err, "token_balance", userID.String())
	}

	current, err := r.GetBalance(ctx, userID)
	if err != nil {
		return domain.DeductResult{}, err
	}
	return domain.DeductResult{Success: false, BalanceBefore: current, BalanceAfter: current}, nil
}

const upsertGrantSQL = `
INSERT INTO token_balances (user_id, balance) VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
   SET balance = token_balances.balance + EXCLUDED.balance, updated_at = now()
RETURNING balance`

const insertGrantSQL = `
INSERT INTO token_grants (user_id, amount, reason, balance_after)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

// Grant credits amount tokens and records the grant. It must run inside a
// transaction so the balance and the grant row commit together.
func (r *Repo) Grant(ctx context.Context, userID uuid.UUID, amount int64, reason string) (*domain.TokenGrant, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be > 0")
	}
	if !postgres.InTx(ctx) {
		return nil, fmt.Errorf("balance.Grant: transaction required")
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	g := &domain.TokenGrant{UserID: userID, Amount: amount, Reason: reason}
	if err := q.QueryRow(ctx, upsertGrantSQL, userID, amount).Scan(&g.BalanceAfter); err != nil {
		return nil, postgres.MapError(err, "token_balance", userID.String())
	}
	if err := q.QueryRow(ctx, insertGrantSQL, userID, amount, reason, g.BalanceAfter).Scan(&g.ID, &g.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "token_grant", userID.String())
	}

	return g, nil
}
