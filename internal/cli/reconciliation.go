package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wellnote-backend/internal/app"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

func newReconciliationCmd(e env) *cobra.Command {
	var (
		reason string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "reconciliation",
		Short: "List provider usage that could not be billed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *domain.ReconciliationReason
			if reason != "" {
				r := domain.ReconciliationReason(reason)
				if r != domain.ReconcileInsufficientAfterCall && r != domain.ReconcilePersistenceFailure {
					return fmt.Errorf("unknown reason %q", reason)
				}
				filter = &r
			}

			return e.withDeps(cmd.Context(), func(d *app.Deps) error {
				recs, err := d.Reconciliation.List(cmd.Context(), filter, limit)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CREATED\tUSER\tACTION\tUNITS\tAMOUNT\tREASON")
				for _, r := range recs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
						r.CreatedAt.Format(time.RFC3339), r.UserID, r.ActionType, r.ProviderUnits, r.Amount, r.Reason)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Filter by reason (INSUFFICIENT_AFTER_CALL, PERSISTENCE_FAILURE)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows to print")

	return cmd
}
