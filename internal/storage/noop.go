package storage

import (
	"context"

	"bubbledash/internal/provider"
)

// Noop is used when no database path is configured. Nothing is kept.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (Noop) GetSetting(context.Context, string) (string, bool, error) { return "", false, nil }
func (Noop) SetSetting(context.Context, string, string) error         { return nil }
func (Noop) RecordQuote(context.Context, *provider.Quote) error       { return nil }
func (Noop) RecordNews(context.Context, string, provider.NewsResult) error {
	return nil
}
func (Noop) ListQuotes(context.Context, string, int) ([]QuoteSnapshot, error) {
	return []QuoteSnapshot{}, nil
}
func (Noop) ListNews(context.Context, string, int) ([]NewsSnapshot, error) {
	return []NewsSnapshot{}, nil
}
func (Noop) Close() error { return nil }
