package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/persistence"
	"storefront/internal/service/checkout"
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
		logger.Fatal("open cart storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeStore()

	adapter := persistence.New(store, logger.Named("persistence"),
		persistence.WithKey(cfg.CartStorageKey),
		persistence.WithMaxQuantity(cfg.MaxCartQuantity),
	)
	cartStore := cart.NewStore(ctx, adapter, cfg.MaxCartQuantity, logger.Named("cart"))
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout, logger.Named("catalog"))
	checkoutService := checkout.New(cartStore, cfg.TaxRate, logger.Named("checkout"))

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog:        catalogClient,
		Cart:           cartStore,
		Checkout:       checkoutService,
		Ping:           store.Ping,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
