package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
output:
  format: table
postgres:
  enabled: true
  dsn: "host=db user=ledger"
redis:
  ttl: 30s
`), 0o600))
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.True(t, cfg.Postgres.Enabled)
	assert.Equal(t, "host=db user=ledger password=secret", cfg.Postgres.DSN)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	// untouched sections keep their defaults
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "ledger-replay", cfg.Kafka.Topic)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.False(t, cfg.Postgres.Enabled)
	assert.Equal(t, time.Second, cfg.Kafka.PollInterval)
}
