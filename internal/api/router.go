// Package api serves provider data as JSON for the dashboard.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"bubbledash/internal/dataprovider"
	"bubbledash/internal/provider"
	"bubbledash/internal/storage"
)

// Service is what the handlers need from the data provider.
type Service interface {
	FetchQuote(ctx context.Context, symbol string) *provider.Quote
	FetchHistorical(ctx context.Context, symbol, function string) *provider.HistoricalSeries
	FetchFundamentals(ctx context.Context, symbol string) *provider.Fundamentals
	FetchNewsResult(ctx context.Context, query string) provider.NewsResult
	Risk(ctx context.Context, symbol, query string) dataprovider.RiskReport
	SelfTest(ctx context.Context) dataprovider.SelfTestReport
	SetKey(ctx context.Context, name, value string) error
	GetKey(name string) string
	Configured(name string) bool
}

// Config holds router dependencies.
type Config struct {
	Service        Service
	Snapshots      storage.Recorder
	Logger         zerolog.Logger
	AllowedOrigins []string
	Timeout        time.Duration
}

// NewRouter builds the HTTP handler.
func NewRouter(cfg Config) http.Handler {
	if cfg.Snapshots == nil {
		cfg.Snapshots = storage.NewNoop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	h := &handler{svc: cfg.Service, snapshots: cfg.Snapshots, log: cfg.Logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(cfg.Logger, "/healthz"))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5, "application/json"))
	r.Use(middleware.Timeout(cfg.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, OriginHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/quotes/{symbol}", h.getQuote)
		r.Get("/historical/{symbol}", h.getHistorical)
		r.Get("/historical/{symbol}/candles", h.getCandles)
		r.Get("/fundamentals/{symbol}", h.getFundamentals)
		r.Get("/news", h.getNews)
		r.Get("/risk", h.getRisk)

		r.Get("/keys", h.listKeys)
		r.Put("/keys/{provider}", h.putKey)
		r.Post("/selftest", h.selfTest)

		r.Get("/snapshots/quotes/{symbol}", h.listQuoteSnapshots)
		r.Get("/snapshots/news", h.listNewsSnapshots)
	})
	return r
}
