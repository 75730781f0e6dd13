// Package aiexec is the only token-spending entry point: it checks the
// balance, calls the language model once and charges the user atomically.
package aiexec

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/provider"
)

type balanceStore interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	TryDeduct(ctx context.Context, userID uuid.UUID, amount int64) (domain.DeductResult, error)
}

type usageLedger interface {
	Append(ctx context.Context, entry domain.UsageLedgerEntry) (*domain.UsageLedgerEntry, error)
}

type reconciler interface {
	Record(ctx context.Context, rec domain.ReconciliationRecord) (*domain.ReconciliationRecord, error)
}

type llmProvider interface {
	Complete(ctx context.Context, req provider.Request) (*provider.Completion, error)
}

type costCalculator interface {
	Calculate(providerUnits int64) int64
}

type estimator interface {
	For(action domain.ActionType) int64
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds orchestrator parameters.
type Config struct {
	LowBalanceThreshold int64
	ProviderTimeout     time.Duration
	Locale              string
}

// Orchestrator executes metered language-model calls.
type Orchestrator struct {
	balances  balanceStore
	ledger    usageLedger
	reconcile reconciler
	llm       llmProvider
	cost      costCalculator
	estimates estimator
	tx        txManager
	cfg       Config
	log       *slog.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	log *slog.Logger,
	balances balanceStore,
	ledger usageLedger,
	reconcile reconciler,
	llm llmProvider,
	cost costCalculator,
	estimates estimator,
	tx txManager,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		balances:  balances,
		ledger:    ledger,
		reconcile: reconcile,
		llm:       llm,
		cost:      cost,
		estimates: estimates,
		tx:        tx,
		cfg:       cfg,
		log:       log.With("service", "aiexec"),
	}
}
