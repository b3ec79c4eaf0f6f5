package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t) // no config.yaml in sight

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Upstream.BaseURL)
	assert.InDelta(t, 10, cfg.Upstream.RateLimitRPS, 0.001)
	assert.Equal(t, 24, cfg.Upstream.CacheTTLHours)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "sitesim.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 10_000_000, cfg.Simulation.StartingBudget)
	assert.Equal(t, 30, cfg.Simulation.BuildDays)
	assert.Equal(t, 3, cfg.Simulation.HistorySize)
	assert.Equal(t, "/tmp/sitesim", cfg.Import.TempDir)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
upstream:
  base_url: https://sites.example.com
store:
  driver: postgres
  database_url: postgres://localhost/sitesim
log:
  level: debug
  format: console
server:
  port: 9090
simulation:
  starting_budget: 25000000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://sites.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 25_000_000, cfg.Simulation.StartingBudget)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Simulation.BuildDays)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SITESIM_SERVER_PORT", "7070")
	t.Setenv("SITESIM_UPSTREAM_BASE_URL", "https://env.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "https://env.example.com", cfg.Upstream.BaseURL)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [not a map"), 0644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	require.Error(t, err)
}
