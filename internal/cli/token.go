package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wellnote-backend/internal/auth"
)

func newTokenCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue access tokens for testing",
	}

	var (
		locale string
		ttl    time.Duration
	)
	issue := &cobra.Command{
		Use:   "issue <user-id>",
		Short: "Print a signed access token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			cfg, err := e.loadConfig()
			if err != nil {
				return err
			}

			tm := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
			token, err := tm.Issue(userID, locale, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&locale, "locale", "", "Locale claim for user-facing messages (en, ru)")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.access_token_ttl)")

	cmd.AddCommand(issue)
	return cmd
}
