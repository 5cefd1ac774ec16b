package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	"storefront/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatal("connect db", zap.Error(err))
		}
		defer pool.Close()

		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}
	case config.DriverMySQL:
		if err := migrate.ApplyMySQL(ctx, cfg.MySQLDSN); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}
	default:
		logger.Info("storage driver has no schema, nothing to migrate", zap.String("driver", cfg.StorageDriver))
		return
	}

	logger.Info("migrations applied", zap.String("driver", cfg.StorageDriver))
}
