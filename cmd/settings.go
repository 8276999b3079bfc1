package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driveclip/driveclip/internal/config"
	"github.com/driveclip/driveclip/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update stored per-account preferences",
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())
	return cmd
}

func openSettingsStore() (*settings.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return settings.NewStore(cfg.Storage.DatabasePath)
}

func newSettingsShowCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored preferences of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettingsStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stored, err := store.Load(context.Background(), account)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "account:           %s\n", stored.Account)
			fmt.Fprintf(cmd.OutOrStdout(), "drive:             %s\n", stored.DriveID)
			fmt.Fprintf(cmd.OutOrStdout(), "save whole thread: %t\n", stored.SaveWholeThread)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name")
	return cmd
}

func newSettingsSetCmd() *cobra.Command {
	var account, driveID string
	var wholeThread bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the stored preferences of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettingsStore()
			if err != nil {
				return err
			}
			defer store.Close()

			saved := settings.Settings{
				Account:         account,
				DriveID:         driveID,
				SaveWholeThread: wholeThread,
			}
			if err := store.Save(context.Background(), saved); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name")
	cmd.Flags().StringVar(&driveID, "drive", "", "Default shared drive ID")
	cmd.Flags().BoolVar(&wholeThread, "whole-thread", false, "Archive whole threads by default")
	return cmd
}
