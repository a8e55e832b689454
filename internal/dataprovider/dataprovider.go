// Package dataprovider is the single entry point the API, CLI and scheduler
// use to fetch market data. It applies the failure policy: provider errors
// are logged and turned into nil results, or into a placeholder summary for
// news.
package dataprovider

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"bubbledash/internal/aggregate"
	"bubbledash/internal/credentials"
	"bubbledash/internal/provider"
	"bubbledash/internal/provider/newsdata"
	"bubbledash/internal/sentiment"
	"bubbledash/internal/storage"
)

// QuoteSource is the quotes provider.
type QuoteSource interface {
	GlobalQuote(ctx context.Context, symbol string) (*provider.Quote, error)
	TimeSeries(ctx context.Context, symbol, function string) (*provider.HistoricalSeries, error)
	Overview(ctx context.Context, symbol string) (*provider.Fundamentals, error)
}

// NewsSource is the news provider.
type NewsSource interface {
	LatestNews(ctx context.Context, query string) ([]newsdata.Article, error)
}

// DataProvider fetches and normalizes provider data.
type DataProvider struct {
	creds        *credentials.Store
	quotes       QuoteSource
	news         NewsSource
	scorer       aggregate.Scorer
	settings     storage.Settings
	log          zerolog.Logger
	mockFallback bool
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a DataProvider.
type Option func(*DataProvider)

// WithLogger sets the logger failures are reported to.
func WithLogger(log zerolog.Logger) Option {
	return func(d *DataProvider) { d.log = log }
}

// WithScorer replaces the keyword sentiment scorer.
func WithScorer(scorer aggregate.Scorer) Option {
	return func(d *DataProvider) { d.scorer = scorer }
}

// WithSettings persists key changes and lets LoadKeys restore them.
func WithSettings(settings storage.Settings) Option {
	return func(d *DataProvider) { d.settings = settings }
}

// WithMockFallback controls whether FetchNewsResult substitutes a
// placeholder summary on failure. FetchNews always does.
func WithMockFallback(enabled bool) Option {
	return func(d *DataProvider) { d.mockFallback = enabled }
}

// WithRand sets the random source of the placeholder summary.
func WithRand(rng *rand.Rand) Option {
	return func(d *DataProvider) { d.rng = rng }
}

// WithClock sets the time stamped on placeholder articles.
func WithClock(now func() time.Time) Option {
	return func(d *DataProvider) { d.now = now }
}

// New creates a DataProvider reading keys from creds.
func New(creds *credentials.Store, quotes QuoteSource, news NewsSource, options ...Option) *DataProvider {
	d := &DataProvider{
		creds:        creds,
		quotes:       quotes,
		news:         news,
		scorer:       sentiment.New(),
		settings:     storage.NewNoop(),
		log:          zerolog.Nop(),
		mockFallback: true,
		now:          time.Now,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// FetchQuote returns the latest quote for symbol, or nil when the provider
// fails or has no data.
func (d *DataProvider) FetchQuote(ctx context.Context, symbol string) *provider.Quote {
	q, err := d.quotes.GlobalQuote(ctx, symbol)
	if err != nil {
		d.log.Error().Err(err).Str("symbol", symbol).Msg("quote fetch failed")
		return nil
	}
	if q == nil {
		d.log.Warn().Str("symbol", symbol).Msg("quote response had no data")
	}
	return q
}

// FetchHistorical returns the series produced by function (default
// TIME_SERIES_DAILY), or nil when the provider fails or has no data.
func (d *DataProvider) FetchHistorical(ctx context.Context, symbol, function string) *provider.HistoricalSeries {
	s, err := d.quotes.TimeSeries(ctx, symbol, function)
	if err != nil {
		d.log.Error().Err(err).Str("symbol", symbol).Str("function", function).Msg("historical fetch failed")
		return nil
	}
	if s == nil {
		d.log.Warn().Str("symbol", symbol).Str("function", function).Msg("historical response had no time series")
	}
	return s
}

// FetchFundamentals returns valuation metrics for symbol, or nil when the
// request fails.
func (d *DataProvider) FetchFundamentals(ctx context.Context, symbol string) *provider.Fundamentals {
	f, err := d.quotes.Overview(ctx, symbol)
	if err != nil {
		d.log.Error().Err(err).Str("symbol", symbol).Msg("fundamentals fetch failed")
		return nil
	}
	return f
}

// FetchNews returns the sentiment summary for query. On failure it returns
// the placeholder summary; use FetchNewsResult to tell the two apart.
func (d *DataProvider) FetchNews(ctx context.Context, query string) provider.NewsSummary {
	return d.fetchNews(ctx, query, true).Summary
}

// FetchNewsResult is FetchNews tagged with where the summary came from.
// With mock fallback disabled a failure yields OriginFailed and an empty
// summary.
func (d *DataProvider) FetchNewsResult(ctx context.Context, query string) provider.NewsResult {
	return d.fetchNews(ctx, query, d.mockFallback)
}

func (d *DataProvider) fetchNews(ctx context.Context, query string, fallback bool) provider.NewsResult {
	articles, err := d.news.LatestNews(ctx, query)
	if err != nil {
		d.log.Error().Err(err).Str("query", query).Bool("mock_fallback", fallback).Msg("news fetch failed")
		if !fallback {
			return provider.NewsResult{
				Summary: provider.NewsSummary{Articles: []provider.Article{}},
				Origin:  provider.OriginFailed,
				Err:     err,
			}
		}
		return provider.NewsResult{Summary: d.mock(), Origin: provider.OriginMocked, Err: err}
	}
	return provider.NewsResult{Summary: aggregate.Summarize(articles, d.scorer), Origin: provider.OriginLive}
}

func (d *DataProvider) mock() provider.NewsSummary {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return aggregate.Mock(d.rng, d.now())
}

// SetKey replaces the API key for a provider and persists it. The in-memory
// key is updated even when persisting fails.
func (d *DataProvider) SetKey(ctx context.Context, name, value string) error {
	if err := d.creds.SetKey(name, value); err != nil {
		return err
	}
	if err := d.settings.SetSetting(ctx, credentials.SettingKey(name), value); err != nil {
		d.log.Error().Err(err).Str("provider", name).Msg("persisting key failed")
		return err
	}
	d.log.Info().Str("provider", name).Bool("configured", d.creds.Configured(name)).Msg("api key updated")
	return nil
}

// GetKey returns the current key for a provider, or its sentinel.
func (d *DataProvider) GetKey(name string) string {
	return d.creds.GetKey(name)
}

// Configured reports whether a provider has a real key.
func (d *DataProvider) Configured(name string) bool {
	return d.creds.Configured(name)
}

// LoadKeys copies persisted keys into the credential store. Providers with
// no persisted key keep their current value.
func (d *DataProvider) LoadKeys(ctx context.Context) error {
	for _, name := range credentials.Providers() {
		value, ok, err := d.settings.GetSetting(ctx, credentials.SettingKey(name))
		if err != nil {
			return err
		}
		if !ok || value == "" {
			continue
		}
		if err := d.creds.SetKey(name, value); err != nil {
			return err
		}
		d.log.Debug().Str("provider", name).Msg("restored persisted api key")
	}
	return nil
}
