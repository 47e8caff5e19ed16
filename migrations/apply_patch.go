// Command apply_patch runs a single SQL file against DATABASE_URL without recording it
// in schema_migrations. Use it for one-off data fixes: go run ./migrations <file.sql>
package main

import (
	"context"
	"os"

	"order-desk/internal/config"
	"order-desk/internal/db"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	if len(os.Args) < 2 {
		logger.Fatal("usage: apply_patch <file.sql>")
	}
	path := os.Args[1]

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	sqlFile, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).WithField("file", path).Fatal("failed to read sql file")
	}

	if _, err := pool.Exec(ctx, string(sqlFile)); err != nil {
		logger.WithError(err).WithField("file", path).Fatal("patch failed")
	}
	logger.WithFields(logrus.Fields{"file": path}).Info("patch applied")
}
