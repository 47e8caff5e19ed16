package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "order-desk/internal/adapters/web"
	"order-desk/internal/app"
	"order-desk/internal/cache"
	"order-desk/internal/config"
	"order-desk/internal/core"
	"order-desk/internal/db"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.Options{MaxConns: cfg.DBMaxConns})
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	defer pool.Close()

	var rdb *redis.Client
	if cfg.RedisAddress != "" {
		rdb, err = cache.Connect(ctx, cfg.RedisAddress)
		if err != nil {
			logger.WithError(err).Warn("catalog cache disabled")
		} else {
			defer rdb.Close()
			logger.WithField("addr", cfg.RedisAddress).Info("catalog cache connected")
		}
	}

	catalog := cache.NewCatalogCache(core.NewCatalogService(pool), rdb, cfg.CatalogCacheTTL, logger)
	svc := app.NewAppService(ctx,
		core.NewCustomerService(pool),
		catalog,
		core.NewOrderService(pool),
		logger,
		cfg.DraftTTL,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           webAdapter.NewHandler(svc, cfg.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("port", cfg.ServerPort).Info("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server")
	}
	logger.Info("server stopped")
}
