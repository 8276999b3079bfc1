// Package cmd implements the command-line interface for driveclip.
//
// This package provides the following commands:
//   - archive: Archive a Gmail message or thread as a PDF in Google Drive
//   - drives: List the shared drives visible to the account
//   - folders: List the folders of a shared drive
//   - auth: Authorize a Google account and store its OAuth token
//   - settings: Show or update stored per-account preferences
//   - serve: Start the HTTP action server
//   - version: Display version information
package cmd
