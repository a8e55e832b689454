package app_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bubbledash/internal/app"
	"bubbledash/internal/config"
	"bubbledash/internal/provider"
	"bubbledash/internal/storage"
)

func TestNew_WiresConfiguredStack(t *testing.T) {
	t.Parallel()

	// Arrange: stub providers that record the apikey they receive
	keys := make(chan string, 2)
	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys <- r.URL.Query().Get("apikey")
		_, _ = w.Write([]byte(`{"Global Quote": {"05. price": "10.5"}}`))
	}))
	t.Cleanup(quotes.Close)

	cfg := config.Default()
	cfg.AlphaVantage.APIKey = "from-config"
	cfg.AlphaVantage.BaseURL = quotes.URL
	cfg.AlphaVantage.MaxRequestsPerMinute = 0
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "app.db")

	// Act: build the stack
	a, err := app.New(t.Context(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	// Assert: the configured key and base URL are used
	q := a.DataProvider.FetchQuote(t.Context(), "NVDA")
	require.NotNil(t, q)
	require.InEpsilon(t, 10.5, q.Price, 1e-9)
	require.Equal(t, "from-config", <-keys)
	require.IsType(t, &storage.SQLite{}, a.Store)
}

func TestNew_PersistedKeyOverridesConfig(t *testing.T) {
	t.Parallel()

	// Arrange: a database holding a key saved on a previous run
	cfg := config.Default()
	cfg.NewsData.APIKey = "from-config"
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "app.db")

	first, err := app.New(t.Context(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.DataProvider.SetKey(t.Context(), provider.NewsData, "saved"))
	require.NoError(t, first.Close())

	// Act: build the stack again
	second, err := app.New(t.Context(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	// Assert: the persisted key wins
	require.Equal(t, "saved", second.DataProvider.GetKey(provider.NewsData))
}

func TestNew_NoStoragePath(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Storage.SQLitePath = ""

	a, err := app.New(t.Context(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &storage.Noop{}, a.Store)
	require.NoError(t, a.Close())

	// Assert: with no keys anywhere the sentinels are reported
	require.False(t, a.DataProvider.Configured(provider.AlphaVantage))
}
