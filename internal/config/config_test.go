package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pbsadmin.db", cfg.DBPath)
	assert.Equal(t, "backups", cfg.BackupDir)
	assert.Equal(t, "Australia/Melbourne", cfg.Timezone)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PBS_DB_PATH", "/tmp/pbs.db")
	t.Setenv("PBS_TIMEZONE", "Australia/Sydney")
	t.Setenv("PBS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pbs.db", cfg.DBPath)
	assert.Equal(t, "Australia/Sydney", cfg.Timezone)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_UnknownTimezone(t *testing.T) {
	t.Setenv("PBS_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PBS_TIMEZONE")
}

func TestLoad_UnknownLogLevel(t *testing.T) {
	t.Setenv("PBS_LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PBS_LOG_LEVEL")
}

func TestValidate_RequiresDBPath(t *testing.T) {
	cfg := Config{Timezone: "UTC", LogLevel: "info"}
	cfg.DBPath = ""
	require.Error(t, cfg.Validate())
}
