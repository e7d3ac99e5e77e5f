package main

import (
	_ "cargo_cover/docs"
	"cargo_cover/internal/infrastructure/bootstrap"
	"cargo_cover/internal/infrastructure/config"
	"cargo_cover/internal/infrastructure/logger"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// @title           Cargo Cover API
// @version         1.0
// @description     Cargo insurance quoting and booking backed by DynamoDB and Redis streams.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to start the application", zap.Error(err))
	}
	if err := c.Cache.Warm(ctx); err != nil {
		zl.Warn("reference warm start incomplete", zap.Error(err))
	}

	// Without redis the api is also the only consumer of its queues.
	if !cfg.UsesRedis() {
		if err := c.RegisterConsumers(); err != nil {
			zl.Fatal("register consumers", zap.Error(err))
		}
		if err := c.Transport.Start(ctx); err != nil {
			zl.Fatal("start transport", zap.Error(err))
		}
		sched := c.Scheduler()
		if err := sched.Start(ctx); err != nil {
			zl.Fatal("start scheduler", zap.Error(err))
		}
		defer func() { _ = sched.Stop(context.Background()) }()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           c.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to startup the application", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
	if err := c.Close(shutdownCtx); err != nil {
		zl.Error("close container", zap.Error(err))
	}
}
