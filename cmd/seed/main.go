// Package main implements a standalone seed script that runs the schema
// migrations and loads the demo dataset into the configured database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Jomkit/KitchenSync/internal/config"
	"github.com/Jomkit/KitchenSync/internal/seed"
	"github.com/Jomkit/KitchenSync/migrations"
	"github.com/Jomkit/KitchenSync/pkg/database"
	"github.com/Jomkit/KitchenSync/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("kitchensync-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPoolWithLogger(ctx, &database.PostgresConfig{
		URL:             cfg.PostgresDSN(),
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := seed.Run(ctx, pool, log); err != nil {
		return err
	}

	log.Info("seed complete", slog.String("environment", cfg.Environment))
	return nil
}
