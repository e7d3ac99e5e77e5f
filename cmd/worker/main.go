// Command worker runs the quote and booking consumers and the maintenance scheduler.
package main

import (
	"cargo_cover/internal/infrastructure/bootstrap"
	"cargo_cover/internal/infrastructure/config"
	"cargo_cover/internal/infrastructure/logger"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("worker stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.New(ctx, cfg, zl)
	if err != nil {
		return err
	}
	if !cfg.UsesRedis() {
		zl.Warn("worker running without redis; it only consumes messages published in this process")
	}
	if err := c.Cache.Warm(ctx); err != nil {
		zl.Warn("reference warm start incomplete", zap.Error(err))
	}
	if err := c.RegisterConsumers(); err != nil {
		return err
	}

	sched := c.Scheduler()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Metrics.Serve(cfg.Metrics.Addr)
	})
	g.Go(func() error {
		if err := c.Transport.Start(gctx); err != nil {
			return err
		}
		return sched.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down worker")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var firstErr error
		if err := sched.Stop(shutdownCtx); err != nil {
			firstErr = err
		}
		if err := c.Close(shutdownCtx); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := c.Metrics.Shutdown(shutdownCtx); err != nil && firstErr == nil {
			firstErr = err
		}
		return firstErr
	})

	zl.Info("worker started", zap.Strings("jobs", sched.Jobs()), zap.String("metrics_addr", cfg.Metrics.Addr))
	return g.Wait()
}
