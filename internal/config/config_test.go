package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://apps.alleghenycounty.us/website", cfg.BaseURL)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout())
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Fetch.Delay())
	assert.Equal(t, "replace", cfg.RealEstate.Policy)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
base_url: http://localhost:8080
data_dir: /tmp/munistats
fetch:
  delay_millis: 500
real_estate:
  policy: skip
millage:
  start_year: 2020
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "/tmp/munistats", cfg.DataDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetch.Delay())
	assert.Equal(t, "skip", cfg.RealEstate.Policy)
	assert.Equal(t, 2020, cfg.Millage.StartYear)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries, "unset keys keep their defaults")
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MUNISTATS_BASE_URL", "http://env.test")
	t.Setenv("MUNISTATS_FETCH_DELAY_MILLIS", "100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://env.test", cfg.BaseURL)
	assert.Equal(t, 100*time.Millisecond, cfg.Fetch.Delay())
}

func TestConfig_RunLogPath(t *testing.T) {
	cfg := Config{DataDir: "data"}
	assert.Equal(t, filepath.Join("data", "munistats.db"), cfg.RunLogPath())

	cfg.RunLog = "/var/lib/munistats/runs.db"
	assert.Equal(t, "/var/lib/munistats/runs.db", cfg.RunLogPath())
}
