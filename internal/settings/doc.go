// Package settings persists per-account preferences for the archive
// workflow in a local SQLite database.
package settings
