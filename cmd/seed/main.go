package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	"storefront/internal/persistence"
	"storefront/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, closeStore, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open cart storage", zap.Error(err))
	}
	defer closeStore()

	adapter := persistence.New(store, logger.Named("persistence"),
		persistence.WithKey(cfg.CartStorageKey),
		persistence.WithMaxQuantity(cfg.MaxCartQuantity),
	)
	cartStore := cart.NewStore(ctx, adapter, cfg.MaxCartQuantity, logger.Named("cart"))

	if err := seed.Apply(ctx, cartStore); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.Int("items", cartStore.TotalItemCount()))
}
