package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/service/checkout"
)

type catalogClient interface {
	FetchPage(ctx context.Context, page int) (*catalog.Page, error)
	Search(ctx context.Context, term string, page int) (*catalog.Page, error)
}

type cartStore interface {
	MaxQuantity() int
	Add(ctx context.Context, item domain.Item) cart.State
	Remove(ctx context.Context, url string) cart.State
	SetQuantity(ctx context.Context, url string, quantity int) cart.State
	Clear(ctx context.Context) cart.State
	Snapshot() cart.State
}

type checkoutService interface {
	Summary() checkout.Summary
	PlaceOrder(ctx context.Context, method string) (*checkout.Order, error)
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Catalog        catalogClient
	Cart           cartStore
	Checkout       checkoutService
	Ping           func(context.Context) error
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Cart == nil || deps.Checkout == nil {
		return nil, errors.New("httpserver: catalog, cart and checkout are required")
	}

	router := gin.New()
	router.Use(
		gin.LoggerWithWriter(logging.StdLog(logger, "http").Writer()),
		gin.Recovery(),
		cors.New(corsConfig(deps.AllowedOrigins)),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ping))

	api := router.Group("/api")
	catalogHandlers := catalogHandlers{client: deps.Catalog}
	api.GET("/starships", catalogHandlers.list)
	api.GET("/starships/search", catalogHandlers.search)

	cartHandlers := cartHandlers{store: deps.Cart}
	api.GET("/cart", cartHandlers.get)
	api.POST("/cart/items", cartHandlers.add)
	api.PATCH("/cart/items", cartHandlers.setQuantity)
	api.DELETE("/cart/items", cartHandlers.remove)
	api.DELETE("/cart", cartHandlers.clear)

	checkoutHandlers := checkoutHandlers{svc: deps.Checkout}
	api.GET("/checkout", checkoutHandlers.summary)
	api.POST("/checkout", checkoutHandlers.placeOrder)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
