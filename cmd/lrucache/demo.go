package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lrucache/internal/cache"
	"lrucache/internal/config"
	"lrucache/internal/logging"
	"lrucache/internal/metrics"
)

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through LRU eviction, lifespan expiry and resizing",
		Long: `
Run a scripted session against a cache built from the environment.

CACHE_LIMIT, CACHE_LIFESPAN and CACHE_CLEANUP_INTERVAL size the cache; LOG_LEVEL
and LOG_FORMAT control output. With METRICS_ENABLED=true the cache metrics are
served on METRICS_ADDR until the process is interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := logging.New(cfg.GetLogLevel(), cfg.GetLogFormat())

			// Signal-aware context is the root of ownership for long-lived work.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := cache.New[string, string](cfg.GetCacheLimit(),
				cache.WithLifespan(cfg.GetCacheLifespan()),
				cache.WithCleanupInterval(cfg.GetCleanupInterval()),
				cache.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					logger.Error("cache close", slog.String("error", err.Error()))
				}
			}()

			logger.Info("demo starting",
				slog.Int("limit", c.Limit()),
				slog.Duration("lifespan", c.Lifespan()),
				slog.Duration("cleanup_interval", cfg.GetCleanupInterval()))

			if err := runDemo(ctx, c, logger); err != nil {
				return err
			}

			mc := cfg.GetMetricsConfig()
			if !mc.Enabled {
				return nil
			}
			return serveMetrics(ctx, mc, c, logger)
		},
	}

	return cmd
}

// runDemo replays the LRU, lifespan and resize scenarios against c.
func runDemo(ctx context.Context, c *cache.Cache[string, string], logger *slog.Logger) error {
	limit := c.Limit()

	// 1) LRU eviction: fill to the limit, touch the eldest, overflow by one.
	for i := 0; i < limit; i++ {
		c.Put(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}
	if v, ok := c.Get("k0"); ok {
		logger.Info("get k0 (touches k0 -> most recent)", slog.String("value", v))
	}
	c.Put("overflow", "x")

	victim := "k1"
	if limit == 1 {
		victim = "k0"
	}
	if _, ok := c.Get(victim); !ok {
		logger.Info("evicted as least recently used", slog.String("key", victim))
	}
	logger.Info("keys after eviction (oldest -> newest)", slog.Any("keys", c.Keys()))

	// 2) Lifespan expiry: nothing is removed until the next lookup.
	c.Put("ttl", "short")
	born, _ := c.BirthtimeOf("ttl")
	logger.Info("inserted ttl", slog.Time("born", born))

	wait := time.NewTimer(c.Lifespan() + 10*time.Millisecond)
	defer wait.Stop()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
		return nil
	case <-wait.C:
	}

	logger.Info("entries before lookup", slog.Int("len", c.Len()))
	if _, ok := c.Get("ttl"); !ok {
		logger.Info("ttl expired and removed on lookup", slog.Int("len", c.Len()))
	}

	// 3) Resize: shrinking drops the eldest entries, invalid sizes are rejected.
	c.Put("r0", "a")
	c.Put("r1", "b")
	if err := c.Resize(1); err != nil {
		return err
	}
	eldest, _ := c.EldestKey()
	logger.Info("resized to 1", slog.Int("len", c.Len()), slog.String("eldest", eldest))

	if err := c.Resize(0); !errors.Is(err, cache.ErrInvalidArgument) {
		return fmt.Errorf("resize to 0: expected invalid argument, got %v", err)
	}
	if err := c.Resize(limit); err != nil {
		return err
	}

	s := c.Stats()
	logger.Info("demo finished",
		slog.Uint64("hits", s.Hits),
		slog.Uint64("misses", s.Misses),
		slog.Uint64("evictions", s.Evictions),
		slog.Uint64("expirations", s.Expirations),
		slog.Uint64("resize_evictions", s.ResizeEvictions))
	return nil
}

func serveMetrics(ctx context.Context, mc *config.MetricsConfig, c *cache.Cache[string, string], logger *slog.Logger) error {
	registry := metrics.NewRegistry(metrics.NewCacheCollector("lrucache", "demo", c))

	mux := http.NewServeMux()
	mux.Handle(mc.Path, metrics.Handler(registry))
	server := &http.Server{
		Addr:              mc.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics until interrupted", slog.String("addr", mc.Addr), slog.String("path", mc.Path))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down metrics server")
	return server.Shutdown(shutdownCtx)
}
