// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Storage settings.
	DBPath     string // SQLite database file.
	RecordsDir string // Client records root; empty means the platform default.
	BackupDir  string // Destination for database backups.

	// Automation settings.
	Timezone string // IANA zone for business wall-clock arithmetic. Fixed at startup.

	// Operational settings.
	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		DBPath:     envStr("PBS_DB_PATH", "pbsadmin.db"),
		RecordsDir: envStr("PBS_RECORDS_DIR", ""),
		BackupDir:  envStr("PBS_BACKUP_DIR", "backups"),
		Timezone:   envStr("PBS_TIMEZONE", "Australia/Melbourne"),
		LogLevel:   envStr("PBS_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and well formed.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: PBS_DB_PATH is required")
	}
	if c.Timezone == "" {
		return fmt.Errorf("config: PBS_TIMEZONE is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: PBS_TIMEZONE %q is not a known IANA zone: %w", c.Timezone, err)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("config: PBS_LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// SlogLevel maps the configured log level onto slog. Validate has
// already rejected unknown values.
func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
