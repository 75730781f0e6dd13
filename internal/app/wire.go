package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wellnote-backend/internal/adapter/delivery/logsender"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/delivery/webhook"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/balance"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/healthentry"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/notifhistory"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/notifpref"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/reconciliation"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/usage"
	userrepo "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/provider/anthropic"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/provider/stub"
	"github.com/heartmarshall/wellnote-backend/internal/auth"
	"github.com/heartmarshall/wellnote-backend/internal/config"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/provider"
	"github.com/heartmarshall/wellnote-backend/internal/service/aiexec"
	"github.com/heartmarshall/wellnote-backend/internal/service/billing"
	"github.com/heartmarshall/wellnote-backend/internal/service/insight"
	"github.com/heartmarshall/wellnote-backend/internal/service/notification"
)

type llmProvider interface {
	Complete(ctx context.Context, req provider.Request) (*provider.Completion, error)
}

type deliverySender interface {
	Send(ctx context.Context, d domain.Delivery) error
}

// Deps holds the wired services shared by the HTTP server and the ops CLI.
type Deps struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pool           *pgxpool.Pool
	Tokens         *auth.TokenManager
	Orchestrator   *aiexec.Orchestrator
	Accounts       *billing.AccountService
	Notifications  *notification.Service
	Scheduler      *notification.Scheduler
	Reconciliation *reconciliation.Repo
}

// Build connects to the database and wires every service. Close releases
// the pool.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	deps, err := NewDeps(cfg, logger, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return deps, nil
}

// Close releases resources held by Deps.
func (d *Deps) Close() {
	d.Pool.Close()
}

// NewDeps wires every service on top of an existing pool.
func NewDeps(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) (*Deps, error) {
	txm := postgres.NewTxManager(pool)

	balanceRepo := balance.New(pool)
	usageRepo := usage.New(pool)
	reconRepo := reconciliation.New(pool)
	prefRepo := notifpref.New(pool)
	historyRepo := notifhistory.New(pool)
	entryRepo := healthentry.New(pool)
	userRepo := userrepo.New(pool)

	cost, err := billing.NewCostCalculator(cfg.Billing.Multiplier)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	estimates, err := billing.NewEstimates(cfg.Billing.Estimates, cfg.Billing.DefaultEstimate)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	llm, err := newLLMProvider(cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	orchestrator := aiexec.NewOrchestrator(
		logger, balanceRepo, usageRepo, reconRepo, llm, cost, estimates, txm,
		aiexec.Config{
			LowBalanceThreshold: cfg.Billing.LowBalanceThreshold,
			ProviderTimeout:     cfg.LLM.Timeout,
			Locale:              cfg.Billing.Locale,
		},
	)

	sender, err := newSender(cfg.Delivery, logger)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(cfg.Notification.AppBaseURL, "/")
	analyzer := insight.NewAnalyzer(insight.Config{
		StaleAfterDays: cfg.Notification.StaleAfterDays,
		JournalURL:     baseURL + "/journal",
	})
	engine := notification.NewEngine(notification.EngineConfig{
		MinResendInterval: cfg.Notification.MinResendInterval,
		WeeklyWeekday:     cfg.Notification.WeeklyWeekday,
		AppBaseURL:        baseURL,
	})
	scheduler := notification.NewScheduler(
		logger, prefRepo, historyRepo, entryRepo, userRepo, analyzer, engine, sender,
		postgres.NewUserLocks(pool, "notification-tick"),
		notification.SchedulerConfig{
			Concurrency:   cfg.Scheduler.Concurrency,
			TickBudget:    cfg.Scheduler.TickBudget,
			HistoryWindow: cfg.Notification.HistoryWindow,
		},
	)

	return &Deps{
		Config:         cfg,
		Logger:         logger,
		Pool:           pool,
		Tokens:         auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL),
		Orchestrator:   orchestrator,
		Accounts:       billing.NewAccountService(logger, balanceRepo, usageRepo, txm),
		Notifications:  notification.NewService(logger, prefRepo, historyRepo, txm),
		Scheduler:      scheduler,
		Reconciliation: reconRepo,
	}, nil
}

func newLLMProvider(cfg config.LLMConfig, logger *slog.Logger) (llmProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:          cfg.APIKey,
			BaseURL:         cfg.BaseURL,
			Model:           cfg.Model,
			MaxOutputTokens: cfg.MaxOutputTokens,
			Temperature:     cfg.Temperature,
			Timeout:         cfg.Timeout,
		}, logger), nil
	case "stub":
		logger.Warn("using stub language-model provider")
		return stub.New(), nil
	default:
		return nil, fmt.Errorf("app: unknown llm provider %q", cfg.Provider)
	}
}

func newSender(cfg config.DeliveryConfig, logger *slog.Logger) (deliverySender, error) {
	switch cfg.Mode {
	case "log":
		return logsender.NewSender(logger), nil
	case "webhook":
		return webhook.NewSender(cfg.WebhookURL, cfg.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("app: unknown delivery mode %q", cfg.Mode)
	}
}
