// Package scheduler refreshes the watchlist on a cron schedule and records
// what it fetched.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bubbledash/internal/provider"
	"bubbledash/internal/storage"
)

// Fetcher is the part of the data provider the refresh job uses.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) *provider.Quote
	FetchNewsResult(ctx context.Context, query string) provider.NewsResult
}

// Watchlist names what each refresh fetches.
type Watchlist struct {
	Symbols []string
	Queries []string
}

// Empty reports whether there is nothing to refresh.
func (w Watchlist) Empty() bool {
	return len(w.Symbols) == 0 && len(w.Queries) == 0
}

// Scheduler manages the refresh cron task.
type Scheduler struct {
	cron        *cron.Cron
	fetcher     Fetcher
	recorder    storage.Recorder
	watchlist   Watchlist
	log         zerolog.Logger
	ctx         context.Context
	timeout     time.Duration
	concurrency int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithRunTimeout bounds a single refresh run.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

// WithConcurrency caps how many watchlist entries are fetched at once.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) { s.concurrency = n }
}

// New creates a Scheduler. Runs are cancelled when ctx ends.
func New(ctx context.Context, fetcher Fetcher, recorder storage.Recorder, watchlist Watchlist, options ...Option) *Scheduler {
	s := &Scheduler{
		cron:        cron.New(),
		fetcher:     fetcher,
		recorder:    recorder,
		watchlist:   watchlist,
		log:         zerolog.Nop(),
		ctx:         ctx,
		timeout:     2 * time.Minute,
		concurrency: 4,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Register schedules the refresh task with a standard five-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("symbols", len(s.watchlist.Symbols)).Int("queries", len(s.watchlist.Queries)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	if err := s.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("refresh failed")
	}
}

// Refresh fetches every watchlist entry once and records the results.
// Entries are fetched concurrently; each fetch is a single request. Missing
// data is skipped, and the first recording error is returned after all
// entries have run.
func (s *Scheduler) Refresh(ctx context.Context) error {
	start := time.Now()
	var g errgroup.Group
	g.SetLimit(max(1, s.concurrency))

	for _, symbol := range s.watchlist.Symbols {
		g.Go(func() error {
			q := s.fetcher.FetchQuote(ctx, symbol)
			if q == nil {
				return nil
			}
			if err := s.recorder.RecordQuote(ctx, q); err != nil {
				s.log.Error().Err(err).Str("symbol", symbol).Msg("record quote")
				return err
			}
			return nil
		})
	}
	for _, query := range s.watchlist.Queries {
		g.Go(func() error {
			res := s.fetcher.FetchNewsResult(ctx, query)
			if res.Origin == provider.OriginFailed {
				return nil
			}
			if err := s.recorder.RecordNews(ctx, query, res); err != nil {
				s.log.Error().Err(err).Str("query", query).Msg("record news")
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	s.log.Info().Dur("took", time.Since(start)).Msg("refresh finished")
	return err
}
