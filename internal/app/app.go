// Package app wires configuration into a ready DataProvider.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bubbledash/internal/config"
	"bubbledash/internal/credentials"
	"bubbledash/internal/dataprovider"
	"bubbledash/internal/httpx"
	"bubbledash/internal/provider"
	"bubbledash/internal/provider/alphavantage"
	"bubbledash/internal/provider/newsdata"
	"bubbledash/internal/provider/ratelimit"
	"bubbledash/internal/storage"
)

// App holds the long-lived components shared by the server and the CLI.
type App struct {
	Config       config.Config
	Logger       zerolog.Logger
	Credentials  *credentials.Store
	Store        storage.Store
	DataProvider *dataprovider.DataProvider
}

// New builds the provider stack described by cfg. Keys from cfg seed the
// credential store and are then overridden by any persisted settings.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	var store storage.Store = storage.NewNoop()
	if cfg.Storage.SQLitePath != "" {
		db, err := storage.OpenSQLite(cfg.Storage.SQLitePath, storage.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		store = db
	}

	creds := credentials.NewStore()
	for name, key := range map[string]string{
		provider.AlphaVantage: cfg.AlphaVantage.APIKey,
		provider.NewsData:     cfg.NewsData.APIKey,
	} {
		if err := creds.SetKey(name, key); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

	quoteOpts := []alphavantage.ClientOption{
		alphavantage.WithHTTPClient(ratelimit.PerMinute(httpClient, cfg.AlphaVantage.MaxRequestsPerMinute, cfg.AlphaVantage.Burst)),
	}
	if cfg.AlphaVantage.BaseURL != "" {
		quoteOpts = append(quoteOpts, alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL))
	}
	newsOpts := []newsdata.ClientOption{
		newsdata.WithHTTPClient(ratelimit.PerMinute(httpClient, cfg.NewsData.MaxRequestsPerMinute, cfg.NewsData.Burst)),
	}
	if cfg.NewsData.BaseURL != "" {
		newsOpts = append(newsOpts, newsdata.WithBaseURL(cfg.NewsData.BaseURL))
	}
	quotes := alphavantage.NewClient(alphavantage.KeySource(creds.Source(provider.AlphaVantage)), quoteOpts...)
	news := newsdata.NewClient(newsdata.KeySource(creds.Source(provider.NewsData)), newsOpts...)

	dp := dataprovider.New(creds, quotes, news,
		dataprovider.WithLogger(log),
		dataprovider.WithSettings(store),
		dataprovider.WithMockFallback(cfg.NewsData.MockFallback),
	)
	if err := dp.LoadKeys(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load persisted keys")
	}

	return &App{
		Config:       cfg,
		Logger:       log,
		Credentials:  creds,
		Store:        store,
		DataProvider: dp,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
