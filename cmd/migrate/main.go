package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/analytics"
	"github.com/CesarValbuena2725/JobTrackr/internal/config"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	conn, err := analytics.OpenConn(ctx, analytics.Options{
		DSN:      cfg.ClickHouseDSN,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
		Database: cfg.ClickHouseDatabase,
	})
	if err != nil {
		logger.Fatal("failed to connect to clickhouse", zap.Error(err))
	}
	defer conn.Close()

	migrator := analytics.NewMigrator(conn, logger)
	if err := migrator.CreateMigrationsTable(ctx); err != nil {
		logger.Fatal("failed to create migrations table", zap.Error(err))
	}

	applied, err := migrator.GetAppliedMigrations(ctx)
	if err != nil {
		logger.Fatal("failed to read applied migrations", zap.Error(err))
	}

	for _, migration := range []analytics.Migration{analytics.CreateActivityTable} {
		if _, done := applied[migration.Version]; done {
			logger.Info("migration already applied", zap.Int("version", migration.Version))
			continue
		}
		if err := migrator.ApplyMigration(ctx, migration); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
	}

	logger.Info("migrations complete")
}
