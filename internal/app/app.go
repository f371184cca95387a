// Package app wires the cache store, fetcher, generator, HTTP server
// and the warm-up scheduler into one runnable unit.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"larryfeed/internal/cache"
	"larryfeed/internal/config"
	"larryfeed/internal/feed"
	"larryfeed/internal/fetcher"
	"larryfeed/internal/generate"
	"larryfeed/internal/posts"
	"larryfeed/internal/server"
)

type App struct {
	cfg     *config.Config
	store   cache.Store
	fetcher *fetcher.Fetcher
	posts   *posts.Service
	server  *server.Server
	logger  *slog.Logger
	stopCh  chan struct{}
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := cache.New(cache.Config{
		Backend:   cfg.Cache.Backend,
		RedisAddr: cfg.Cache.RedisAddr,
		Path:      cfg.Cache.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}

	gen, err := generate.New(generate.Config{
		Provider: cfg.Generation.Provider,
		Model:    cfg.Generation.Model,
		APIKey:   cfg.APIKey(),
		Enrich:   cfg.Generation.Enrich,
	}, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	f := fetcher.New(store, fetcher.Config{ItemTTL: cfg.ItemTTL()}, logger)
	p := posts.NewService(store, gen, cfg.PostTTL(), logger)
	srv := server.New(cfg.Server, cfg.Descriptors(), f, p, logger)

	return &App{
		cfg:     cfg,
		store:   store,
		fetcher: f,
		posts:   p,
		server:  srv,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start runs the HTTP server and the warm-up loop. It blocks until the
// context is cancelled or, in run-once mode, until the single warm-up
// pass completes.
func (a *App) Start(ctx context.Context) error {
	if err := a.server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if a.cfg.Warmup.RunOnce {
		a.warmupRun(ctx)
		return nil
	}

	interval := a.cfg.WarmupInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.warmupRun(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.stopCh:
			return nil
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, interval)
			a.warmupRun(runCtx)
			cancel()
		}
	}
}

// warmupRun pre-generates posts for the freshest items so that user
// requests mostly hit the cache. Warm-up failures only mean colder
// caches; nothing here is fatal.
func (a *App) warmupRun(ctx context.Context) {
	lists := a.fetcher.FetchAll(ctx, a.cfg.Descriptors())

	var items []feed.Item
	for _, list := range lists {
		items = append(items, list...)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})

	generated := a.posts.Ensure(ctx, items, a.cfg.Warmup.Quota)
	a.logger.Info("warmup pass finished", "items", len(items), "posts", len(generated))
}

func (a *App) Stop(ctx context.Context) error {
	close(a.stopCh)

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("store close failed: %w", err)
	}
	return nil
}
