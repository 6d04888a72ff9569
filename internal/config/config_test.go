package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  env: prod\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":8085", cfg.App.HTTPAddr)
	assert.Equal(t, "/data/db/engine_state.db", cfg.Store.LedgerPath)
	assert.Equal(t, 100, cfg.Broker.OrderFetchLimit)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  log_level: debug
  http_addr: ":9000"
store:
  ledger_path: /tmp/state.db
  audit_log_path: /tmp/audit.db
broker:
  enabled: true
  base_url: https://api.alpaca.markets
  order_fetch_limit: 250
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, ":9000", cfg.App.HTTPAddr)
	assert.Equal(t, "/tmp/state.db", cfg.Store.LedgerPath)
	assert.True(t, cfg.Broker.Enabled)
	assert.Equal(t, 250, cfg.Broker.OrderFetchLimit)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad log level", "app:\n  log_level: verbose\n"},
		{"addr without port", "app:\n  http_addr: localhost\n"},
		{"fetch limit too large", "broker:\n  order_fetch_limit: 1000\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
