package main

import (
	"context"
	"fmt"
	"os"

	"order-desk/internal/adapters/cli"
	"order-desk/internal/app"
	"order-desk/internal/cache"
	"order-desk/internal/config"
	"order-desk/internal/core"
	"order-desk/internal/db"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, cli.Usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("unable to connect to database")
	}
	defer pool.Close()

	svc := app.NewAppService(ctx,
		core.NewCustomerService(pool),
		cache.NewCatalogCache(core.NewCatalogService(pool), nil, cfg.CatalogCacheTTL, logger),
		core.NewOrderService(pool),
		logger,
		cfg.DraftTTL,
	)

	if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
