package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driveclip/driveclip/internal/drive"
)

func newDrivesCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "drives",
		Short: "List the shared drives visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := drive.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Drive client for account %s: %w", account, err)
			}

			catalog, err := client.ListSharedDrives(ctx)
			if err != nil {
				return err
			}

			if len(catalog) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No shared drives visible")
				return nil
			}
			for _, res := range catalog {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.ID, res.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	return cmd
}

func newFoldersCmd() *cobra.Command {
	var account, driveID string

	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List the folders of a shared drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := drive.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Drive client for account %s: %w", account, err)
			}

			catalog, err := client.ListFolders(ctx, driveID)
			if err != nil {
				return err
			}

			if len(catalog) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No folders found")
				return nil
			}
			for _, res := range catalog {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.ID, res.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().StringVar(&driveID, "drive", "", "Shared drive ID (empty: all visible drives)")
	return cmd
}
