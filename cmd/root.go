package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the driveclip application
var rootCmd = &cobra.Command{
	Use:   "driveclip",
	Short: "Archives Gmail messages as PDFs in Google Drive",
	Long: `driveclip archives Gmail messages and threads as PDF documents in a
shared Google Drive folder. Non-image attachments are extracted into a
companion folder next to the document, and recipients can optionally be
notified by email.

It can run as:
  - A standalone CLI tool (default)
  - An HTTP action server for add-on integrations (serve)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "driveclip version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "driveclip version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newDrivesCmd())
	rootCmd.AddCommand(newFoldersCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
