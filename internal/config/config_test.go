package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.True(t, cfg.NewsData.MockFallback)
	require.Equal(t, "https://www.alphavantage.co/query", cfg.AlphaVantage.BaseURL)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
alpha_vantage:
  api_key: av-from-file
  max_requests_per_minute: 75
news:
  mock_fallback: false
scheduler:
  symbols: [TSM]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 10, cfg.Server.RequestTimeoutSec)
	require.Equal(t, "av-from-file", cfg.AlphaVantage.APIKey)
	require.Equal(t, 75, cfg.AlphaVantage.MaxRequestsPerMinute)
	require.False(t, cfg.NewsData.MockFallback)
	require.Equal(t, []string{"TSM"}, cfg.Scheduler.Symbols)
	require.Equal(t, []string{"NVIDIA stock", "AI bubble"}, cfg.Scheduler.Queries)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("REQUEST_TIMEOUT_SEC", "30")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-env")
	t.Setenv("ALPHA_VANTAGE_MAX_RPM", "0")
	t.Setenv("NEWSDATA_API_KEY", "nd-env")
	t.Setenv("NEWSDATA_BASE_URL", "http://localhost:9999/news")
	t.Setenv("NEWS_MOCK_FALLBACK", "no")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("WATCHLIST_SYMBOLS", " NVDA , ,AVGO")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Default()
	applyEnv(&cfg)

	require.Equal(t, "7000", cfg.Server.Port)
	require.Equal(t, 30, cfg.Server.RequestTimeoutSec)
	require.Equal(t, "av-env", cfg.AlphaVantage.APIKey)
	require.Zero(t, cfg.AlphaVantage.MaxRequestsPerMinute)
	require.Equal(t, "nd-env", cfg.NewsData.APIKey)
	require.Equal(t, "http://localhost:9999/news", cfg.NewsData.BaseURL)
	require.False(t, cfg.NewsData.MockFallback)
	require.Empty(t, cfg.Storage.SQLitePath)
	require.Equal(t, []string{"NVDA", "AVGO"}, cfg.Scheduler.Symbols)
	require.True(t, cfg.Scheduler.RunOnStart)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SEC", "soon")
	t.Setenv("NEWS_MOCK_FALLBACK", "maybe")

	cfg := Default()
	applyEnv(&cfg)

	require.Equal(t, 10, cfg.Server.RequestTimeoutSec)
	require.True(t, cfg.NewsData.MockFallback)
}
