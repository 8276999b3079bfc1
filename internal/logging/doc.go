// Package logging provides structured logging helpers built on the standard
// library slog package.
//
// It centralizes attribute naming so archive runs, catalog listings and
// action handling log with the same keys, and it sanitizes account
// identifiers before they reach log output. Full email addresses are hashed
// so entries stay correlatable without exposing PII.
package logging
