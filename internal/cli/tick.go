package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wellnote-backend/internal/app"
)

func newTickCmd(e env) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run one notification scheduler tick",
		Long:  "Evaluate every user with notification preferences once and print the tick summary as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC 3339: %w", err)
				}
				if parsed.After(now) {
					return fmt.Errorf("--at must not be in the future")
				}
				now = parsed.UTC()
			}

			return e.withDeps(cmd.Context(), func(d *app.Deps) error {
				summary, err := d.Scheduler.RunTick(cmd.Context(), now)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Evaluate for this past instant instead of now (RFC 3339)")

	return cmd
}
