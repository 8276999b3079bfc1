package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driveclip/driveclip/internal/archive"
	"github.com/driveclip/driveclip/internal/config"
	"github.com/driveclip/driveclip/internal/drive"
	"github.com/driveclip/driveclip/internal/gmail"
)

func newArchiveCmd() *cobra.Command {
	var (
		account       string
		driveID       string
		destination   string
		filename      string
		messageID     string
		threadID      string
		wholeThread   bool
		notifyTo      []string
		notifySubject string
		notifyBody    string
	)

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive a Gmail message or thread as a PDF in Google Drive",
		Long: `Fetch a Gmail message (or its whole thread), render it as a PDF and
store it in the named destination folder of a shared drive. Non-image
attachments land in a companion folder next to the document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if messageID == "" && threadID == "" {
				return fmt.Errorf("either --message or --thread is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			ctx := context.Background()

			gmailClient, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
			}
			driveClient, err := drive.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Drive client for account %s: %w", account, err)
			}

			catalog, err := driveClient.ListFolders(ctx, driveID)
			if err != nil {
				return fmt.Errorf("failed to list destination folders: %w", err)
			}

			archiver := archive.New(gmailClient, driveClient, gmailClient, archive.NewAssembler(loc), nil)
			result, err := archiver.Archive(ctx, catalog, archive.Request{
				MessageID:     messageID,
				ThreadID:      threadID,
				WholeThread:   wholeThread,
				Destination:   destination,
				Filename:      filename,
				NotifyTo:      notifyTo,
				NotifySubject: notifySubject,
				NotifyBody:    notifyBody,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Archived %q", result.Filename)
			if result.File != nil && result.File.WebViewLink != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", result.File.WebViewLink)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().StringVar(&driveID, "drive", "", "Shared drive ID to archive into (empty: all visible drives)")
	cmd.Flags().StringVar(&destination, "destination", "", "Destination folder name (required)")
	cmd.Flags().StringVar(&filename, "filename", "", "Document filename (default: subject of the first message)")
	cmd.Flags().StringVar(&messageID, "message", "", "Gmail message ID to archive")
	cmd.Flags().StringVar(&threadID, "thread", "", "Gmail thread ID to archive")
	cmd.Flags().BoolVar(&wholeThread, "whole-thread", false, "Archive the whole thread instead of a single message")
	cmd.Flags().StringSliceVar(&notifyTo, "notify", nil, "Email addresses to notify after archiving (comma-separated)")
	cmd.Flags().StringVar(&notifySubject, "notify-subject", "", "Subject of the notification email")
	cmd.Flags().StringVar(&notifyBody, "notify-body", "", "Body text of the notification email")
	_ = cmd.MarkFlagRequired("destination")

	return cmd
}
