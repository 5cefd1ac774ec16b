package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logging"
	"storefront/internal/persistence"
)

func main() {
	var (
		filePath string
		replace  bool
	)
	flag.StringVar(&filePath, "file", "", "Path to cart CSV export")
	flag.BoolVar(&replace, "replace", false, "Clear the current cart before importing")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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
	if replace {
		cartStore.Clear(ctx)
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, cartStore, logger.Named("importer"))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Imported %d lines (%d items) in %s\n", count, cartStore.TotalItemCount(), time.Since(start).Truncate(time.Millisecond))
}
