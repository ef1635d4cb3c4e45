package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
database:
  host: localhost
  dbname: metrics
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 8, cfg.Sync.Workers)
	assert.Equal(t, 15*time.Second, cfg.Sync.FetchTimeout)
	assert.Equal(t, 1, cfg.Providers.Retry.MaxAttempts)
	assert.Equal(t, "UTC", cfg.Analytics.Timezone)
	assert.Equal(t, 30, cfg.Analytics.FallbackDays)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_YT_KEY", "secret-key")

	cfg, err := Parse([]byte(minimal + `
providers:
  youtube:
    enabled: true
    api_key: ${TEST_YT_KEY}
`))
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Providers.YouTube.APIKey)
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing database", yaml: `log_level: info`},
		{name: "bad log level", yaml: minimal + "log_level: verbose\n"},
		{name: "bad backend", yaml: minimal + "storage:\n  backend: cassandra\n"},
		{name: "mongo without uri", yaml: minimal + "storage:\n  backend: mongo\n"},
		{name: "enabled provider without key", yaml: minimal + "providers:\n  tiktok:\n    enabled: true\n"},
		{name: "redis without addr", yaml: minimal + "redis:\n  enabled: true\n"},
		{name: "unknown timezone", yaml: minimal + "analytics:\n  timezone: Mars/Olympus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal+"analytics:\n  timezone: Europe/Berlin\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	loc, err := cfg.Analytics.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
