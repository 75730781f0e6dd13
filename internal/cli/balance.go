package cli

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/wellnote-backend/internal/app"
)

func newBalanceCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Inspect and credit token balances",
	}

	show := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Print a user's token balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			return e.withDeps(cmd.Context(), func(d *app.Deps) error {
				balance, err := d.Accounts.BalanceOf(cmd.Context(), userID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", userID, balance)
				return nil
			})
		},
	}

	var reason string
	grant := &cobra.Command{
		Use:   "grant <user-id> <amount>",
		Short: "Credit tokens to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive integer, got %q", args[1])
			}
			return e.withDeps(cmd.Context(), func(d *app.Deps) error {
				g, err := d.Accounts.Grant(cmd.Context(), userID, amount, reason)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "granted %d to %s, balance now %d\n", g.Amount, g.UserID, g.BalanceAfter)
				return nil
			})
		},
	}
	grant.Flags().StringVar(&reason, "reason", "", "Why the tokens are granted (required)")
	_ = grant.MarkFlagRequired("reason")

	cmd.AddCommand(show, grant)
	return cmd
}

func parseUserID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
