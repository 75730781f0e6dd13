// Package cli implements opsctl, the operator command line for migrations,
// manual scheduler ticks, token grants and test tokens.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wellnote-backend/internal/app"
	"github.com/heartmarshall/wellnote-backend/internal/config"
)

// env lets tests replace configuration loading and dependency wiring.
type env struct {
	loadConfig func() (*config.Config, error)
	build      func(ctx context.Context, cfg *config.Config) (*app.Deps, error)
}

func defaultEnv() env {
	return env{
		loadConfig: config.Load,
		build: func(ctx context.Context, cfg *config.Config) (*app.Deps, error) {
			return app.Build(ctx, cfg, app.NewLogger(cfg.Log))
		},
	}
}

// NewRootCmd creates the opsctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultEnv())
}

func newRootCmd(e env) *cobra.Command {
	root := &cobra.Command{
		Use:           "opsctl",
		Short:         "Operator tooling for the wellnote backend",
		Long:          "opsctl applies migrations, runs scheduler ticks by hand, manages token balances and issues access tokens for testing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(
		newMigrateCmd(e),
		newTickCmd(e),
		newBalanceCmd(e),
		newTokenCmd(e),
		newReconciliationCmd(e),
	)

	root.Version = app.Version
	root.SetVersionTemplate(fmt.Sprintf("opsctl %s\n", app.BuildVersion()))

	return root
}

// Execute runs opsctl and exits non-zero on error. SIGINT cancels the
// running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withDeps loads configuration, wires dependencies and runs fn with them.
func (e env) withDeps(ctx context.Context, fn func(d *app.Deps) error) error {
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	deps, err := e.build(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()
	return fn(deps)
}
