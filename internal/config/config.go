// Package config loads the application configuration from file and
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	// Account is the Google account identifier used for API access.
	Account string `mapstructure:"account"`

	Server  ServerConfig  `mapstructure:"server"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Storage StorageConfig `mapstructure:"storage"`
}

// ServerConfig holds the listen addresses of the action and metrics
// endpoints.
type ServerConfig struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// ArchiveConfig holds archive workflow preferences.
type ArchiveConfig struct {
	// Timezone names the zone used to render message timestamps in archived
	// documents. "CET" selects a fixed +01:00 offset; any other value is
	// resolved as an IANA zone name.
	Timezone string `mapstructure:"timezone"`
}

// StorageConfig holds local persistence settings.
type StorageConfig struct {
	// DatabasePath locates the SQLite settings database.
	DatabasePath string `mapstructure:"database_path"`
}

// Load reads the configuration from driveclip.yaml in the working directory
// or ~/.config/driveclip, applying defaults and DRIVECLIP_* environment
// overrides. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("driveclip")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "driveclip"))
	}

	v.SetEnvPrefix("DRIVECLIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.metrics_addr", ":9090")
	v.SetDefault("archive.timezone", "CET")
	v.SetDefault("storage.database_path", defaultDatabasePath())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured archive timezone. "CET" maps to a fixed
// +01:00 offset rather than the IANA zone so rendered timestamps do not
// shift with daylight saving.
func (c *Config) Location() (*time.Location, error) {
	name := c.Archive.Timezone
	if name == "" || name == "CET" {
		return time.FixedZone("CET", 60*60), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid archive timezone %q: %w", name, err)
	}
	return loc, nil
}

func defaultDatabasePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "driveclip.db"
	}
	return filepath.Join(dir, "driveclip", "driveclip.db")
}
