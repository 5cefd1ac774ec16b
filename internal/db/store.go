package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/migrate"
	"storefront/internal/repository/kv"
)

// OpenStore connects the key-value backend selected by cfg.StorageDriver. SQL
// backends are migrated before use. The returned func releases connections.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (kv.Store, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory cart storage; the cart will not survive a restart")
		return kv.NewMemory(), noop, nil

	case "", config.DriverFile:
		store, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file storage: %w", err)
		}
		return store, noop, nil

	case config.DriverRedis:
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return kv.NewRedis(client), func() { client.Close() }, nil

	case config.DriverPostgres:
		pool, err := Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		return kv.NewPostgres(pool), pool.Close, nil

	case config.DriverMySQL:
		if err := migrate.ApplyMySQL(ctx, cfg.MySQLDSN); err != nil {
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		sqlDB, err := OpenMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mysql: %w", err)
		}
		return kv.NewMySQL(sqlDB), func() { sqlDB.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
