package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driveclip/driveclip/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string
	var force bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account and store its OAuth token",
		Long: `Run the OAuth authorization flow for a Google account. The command
prints an authorization URL, waits for the resulting code on stdin, and
stores the token in the user cache directory for later use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if google.HasTokenForAccount(account) && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Account %s is already authorized (use --force to re-authorize)\n", account)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Open the following URL in your browser:\n\n%s\n\n", google.GetAuthURLForAccount(account))
			fmt.Fprint(cmd.OutOrStdout(), "Enter the authorization code: ")

			reader := bufio.NewReader(cmd.InOrStdin())
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("authorization code is empty")
			}

			if err := google.SaveTokenForAccount(context.Background(), account, code); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account %s authorized\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to authorize")
	cmd.Flags().BoolVar(&force, "force", false, "Re-run the flow even if a token exists")
	return cmd
}
