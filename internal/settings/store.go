package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Settings holds the stored preferences of one account. The zero value is
// returned for accounts that have never saved anything.
type Settings struct {
	Account         string `db:"account"`
	DriveID         string `db:"drive_id"`
	SaveWholeThread bool   `db:"save_whole_thread"`
}

// Store persists account settings in a SQLite database.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the settings database at dbPath, enables WAL
// mode, and creates the schema if missing.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			account           TEXT PRIMARY KEY,
			drive_id          TEXT NOT NULL DEFAULT '',
			save_whole_thread INTEGER NOT NULL DEFAULT 0
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored settings for account, or zero-value settings with
// the account filled in when none were saved yet.
func (s *Store) Load(ctx context.Context, account string) (Settings, error) {
	if account == "" {
		return Settings{}, fmt.Errorf("account is required")
	}

	var stored Settings
	err := s.db.GetContext(ctx, &stored,
		"SELECT account, drive_id, save_whole_thread FROM user_settings WHERE account = ?",
		account,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{Account: account}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("loading settings for %s: %w", account, err)
	}

	return stored, nil
}

// Save stores the settings wholesale, replacing any previous row for the
// account.
func (s *Store) Save(ctx context.Context, settings Settings) error {
	if settings.Account == "" {
		return fmt.Errorf("account is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (account, drive_id, save_whole_thread)
		VALUES (?, ?, ?)
		ON CONFLICT(account) DO UPDATE SET
			drive_id          = excluded.drive_id,
			save_whole_thread = excluded.save_whole_thread`,
		settings.Account, settings.DriveID, settings.SaveWholeThread,
	)
	if err != nil {
		return fmt.Errorf("saving settings for %s: %w", settings.Account, err)
	}

	return nil
}
