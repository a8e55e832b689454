// Package storage persists settings and fetched snapshots.
package storage

import (
	"context"
	"time"

	"bubbledash/internal/provider"
)

// QuoteSnapshot is a quote as it was fetched at RecordedAt.
type QuoteSnapshot struct {
	Quote      provider.Quote `json:"quote"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// NewsSnapshot is a news summary as it was fetched at RecordedAt. Articles
// are not stored.
type NewsSnapshot struct {
	Query        string          `json:"query"`
	Origin       provider.Origin `json:"origin"`
	Sentiment    float64         `json:"sentiment"`
	Intensity    float64         `json:"intensity"`
	ArticleCount int             `json:"articleCount"`
	RecordedAt   time.Time       `json:"recordedAt"`
}

// Settings is a durable string key-value store.
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Recorder persists fetched data for the trend views.
type Recorder interface {
	RecordQuote(ctx context.Context, q *provider.Quote) error
	RecordNews(ctx context.Context, query string, res provider.NewsResult) error
	ListQuotes(ctx context.Context, symbol string, limit int) ([]QuoteSnapshot, error)
	ListNews(ctx context.Context, query string, limit int) ([]NewsSnapshot, error)
}

// Store combines both concerns behind one handle.
type Store interface {
	Settings
	Recorder
	Close() error
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Noop)(nil)
)
