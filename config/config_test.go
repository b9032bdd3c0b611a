package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "database:\n  dsn: test\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 15*time.Minute, cfg.Sweeper.Interval)
	assert.Equal(t, 3, cfg.Rules.DefaultPreventiveIntervalMonths)
	assert.Equal(t, 30, cfg.Rules.DefaultMaxReservationDays)
	assert.Equal(t, 30, cfg.Rules.MaxExtensionDays)
	assert.Equal(t, 24, cfg.Rules.DefaultMinAdvanceHours)
	assert.True(t, cfg.Rules.DailyUsage.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, "posters", cfg.Storage.Bucket)
	assert.False(t, cfg.Push.Enabled())
}

func TestLoadMinAdvanceHoursZero(t *testing.T) {
	cfg, err := Load(writeConfig(t, "database:\n  dsn: test\nrules:\n  default_min_advance_hours: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Rules.DefaultMinAdvanceHours)
}

func TestLoadExampleFile(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
	assert.True(t, cfg.Sweeper.Enabled)
	assert.Equal(t, 24, cfg.Rules.DefaultMinAdvanceHours)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PRESENTOIR_DATABASE_DSN", "from-env")
	t.Setenv("PRESENTOIR_DATABASE_DRIVER", "sqlite")
	t.Setenv("PRESENTOIR_PORT", "9090")
	t.Setenv("PRESENTOIR_VAPID_PUBLIC_KEY", "pub")
	t.Setenv("PRESENTOIR_VAPID_PRIVATE_KEY", "priv")

	cfg, err := Load(writeConfig(t, "database:\n  dsn: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.DSN)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Push.Enabled())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad driver", "database:\n  driver: mysql\n"},
		{"bad usage", "rules:\n  daily_usage: lots\n"},
		{"negative usage", "rules:\n  daily_usage: \"-1\"\n"},
		{"bad yaml", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
