package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bubbledash/internal/api"
	"bubbledash/internal/app"
	"bubbledash/internal/config"
	"bubbledash/internal/logger"
	"bubbledash/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser, err := logger.New(logger.Config{
		Level:         cfg.Log.Level,
		Format:        cfg.Log.Format,
		FilePath:      cfg.Log.FilePath,
		RotationSize:  cfg.Log.RotationSize,
		RetentionDays: cfg.Log.RetentionDays,
		Service:       "bubbledash",
	}, os.Stdout)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	watchlist := scheduler.Watchlist{Symbols: cfg.Scheduler.Symbols, Queries: cfg.Scheduler.Queries}
	sched := scheduler.New(ctx, a.DataProvider, a.Store, watchlist, scheduler.WithLogger(log))
	if cfg.Scheduler.Cron != "" && !watchlist.Empty() {
		if err := sched.Register(cfg.Scheduler.Cron); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}
	if cfg.Scheduler.RunOnStart && !watchlist.Empty() {
		go func() {
			if err := sched.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("initial refresh failed")
			}
		}()
	}

	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: api.NewRouter(api.Config{
			Service:   a.DataProvider,
			Snapshots: a.Store,
			Logger:    log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
