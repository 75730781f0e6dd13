// Package app wires configuration, storage, services and transport into the
// running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/config"
	"github.com/heartmarshall/wellnote-backend/internal/transport/middleware"
	"github.com/heartmarshall/wellnote-backend/internal/transport/rest"
)

const rateLimiterCleanup = 5 * time.Minute

// Run is the application entry point. It loads configuration, wires every
// dependency and serves HTTP until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.String("delivery_mode", cfg.Delivery.Mode),
	)

	deps, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	limiter := middleware.NewRateLimiter(rateLimiterCleanup)
	defer limiter.Stop()

	handler := NewHandler(deps, limiter)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// NewHandler builds the HTTP handler tree over deps.
func NewHandler(deps *Deps, limiter *middleware.RateLimiter) http.Handler {
	logger := deps.Logger
	return rest.NewRouter(logger, rest.Handlers{
		Health:        rest.NewHealthHandler(Version, rest.Check{Name: "database", Ping: deps.Pool}),
		AI:            rest.NewAIHandler(deps.Orchestrator, logger),
		Billing:       rest.NewBillingHandler(deps.Accounts, logger),
		Notifications: rest.NewNotificationHandler(deps.Notifications, logger),
		Scheduler:     rest.NewSchedulerHandler(deps.Scheduler, logger),
	}, deps.Tokens, limiter, rest.RouterConfig{
		CronSecret:      deps.Config.Auth.CronSecret,
		AIRatePerMinute: deps.Config.Server.AIRatePerMinute,
	})
}
