package scheduler_test

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"bubbledash/internal/provider"
	"bubbledash/internal/scheduler"
	"bubbledash/internal/storage"
)

type fakeFetcher struct {
	mu      sync.Mutex
	symbols []string
	queries []string
	origin  provider.Origin
}

func (f *fakeFetcher) FetchQuote(_ context.Context, symbol string) *provider.Quote {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.symbols = append(f.symbols, symbol)
	if symbol == "NODATA" {
		return nil
	}
	return &provider.Quote{Symbol: symbol, Price: 10}
}

func (f *fakeFetcher) FetchNewsResult(_ context.Context, query string) provider.NewsResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return provider.NewsResult{
		Summary: provider.NewsSummary{ArticleCount: 1, Articles: []provider.Article{{Title: query}}},
		Origin:  f.origin,
	}
}

type failingRecorder struct {
	storage.Noop
}

func (failingRecorder) RecordQuote(context.Context, *provider.Quote) error {
	return errors.New("disk full")
}

func TestRefresh_RecordsEveryEntryOnce(t *testing.T) {
	t.Parallel()

	// Arrange: a sqlite recorder and a fake fetcher
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "refresh.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fetcher := &fakeFetcher{origin: provider.OriginLive}
	s := scheduler.New(t.Context(), fetcher, store, scheduler.Watchlist{
		Symbols: []string{"NVDA", "AMD", "NODATA"},
		Queries: []string{"AI bubble"},
	}, scheduler.WithConcurrency(2))

	// Act: run one refresh
	require.NoError(t, s.Refresh(t.Context()))

	// Assert: one fetch per entry
	sort.Strings(fetcher.symbols)
	require.Equal(t, []string{"AMD", "NODATA", "NVDA"}, fetcher.symbols)
	require.Equal(t, []string{"AI bubble"}, fetcher.queries)

	// Assert: data was recorded, missing data skipped
	nvda, err := store.ListQuotes(t.Context(), "NVDA", 10)
	require.NoError(t, err)
	require.Len(t, nvda, 1)
	nodata, err := store.ListQuotes(t.Context(), "NODATA", 10)
	require.NoError(t, err)
	require.Empty(t, nodata)
	news, err := store.ListNews(t.Context(), "AI bubble", 10)
	require.NoError(t, err)
	require.Len(t, news, 1)
	require.Equal(t, provider.OriginLive, news[0].Origin)
}

func TestRefresh_SkipsFailedNews(t *testing.T) {
	t.Parallel()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "failed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fetcher := &fakeFetcher{origin: provider.OriginFailed}
	s := scheduler.New(t.Context(), fetcher, store, scheduler.Watchlist{Queries: []string{"AI"}})

	require.NoError(t, s.Refresh(t.Context()))
	news, err := store.ListNews(t.Context(), "AI", 10)
	require.NoError(t, err)
	require.Empty(t, news)
}

func TestRefresh_RecorderErrorReturned(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{origin: provider.OriginLive}
	s := scheduler.New(t.Context(), fetcher, failingRecorder{}, scheduler.Watchlist{
		Symbols: []string{"NVDA"},
		Queries: []string{"AI"},
	})

	err := s.Refresh(t.Context())
	require.EqualError(t, err, "disk full")
	// the news entry still ran
	require.Equal(t, []string{"AI"}, fetcher.queries)
}

func TestRegister_InvalidSpec(t *testing.T) {
	t.Parallel()

	s := scheduler.New(t.Context(), &fakeFetcher{}, storage.NewNoop(), scheduler.Watchlist{})
	require.Error(t, s.Register("not a cron spec"))
	require.NoError(t, s.Register("*/5 * * * *"))

	s.Start()
	s.Stop()
}

func TestWatchlist_Empty(t *testing.T) {
	t.Parallel()

	require.True(t, scheduler.Watchlist{}.Empty())
	require.False(t, scheduler.Watchlist{Queries: []string{"AI"}}.Empty())
}
