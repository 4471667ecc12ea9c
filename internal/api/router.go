// Package api exposes the nearby-shop and basket use cases over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/harvest/internal/basket"
	"github.com/UnknownOlympus/harvest/internal/metrics"
	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/UnknownOlympus/harvest/internal/service"
	"github.com/gin-gonic/gin"
)

// NearbyFinder is the shop lookup used by the shop handlers.
type NearbyFinder interface {
	FindNearby(ctx context.Context, user models.Coordinates) (service.NearbyResult, error)
	FindNearbyByLocation(ctx context.Context, location string) (service.NearbyResult, error)
	Geocode(ctx context.Context, location string) (*models.Coordinates, error)
}

// BasketService is the cart and favorites store used by the basket handlers.
type BasketService interface {
	Basket(ctx context.Context, userID string) (models.Basket, error)
	AddToCart(ctx context.Context, userID string, product models.Product, quantity int) (models.Basket, error)
	RemoveFromCart(ctx context.Context, userID, itemID string) (models.Basket, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (models.Basket, error)
	ClearCart(ctx context.Context, userID string) (models.Basket, error)
	AddFavorite(ctx context.Context, userID string, product models.Product) (models.Basket, error)
	RemoveFavorite(ctx context.Context, userID string, productID int) (models.Basket, error)
	IsFavorite(ctx context.Context, userID string, productID int) (bool, error)
	ClearFavorites(ctx context.Context, userID string) (models.Basket, error)
}

var _ BasketService = (*basket.Service)(nil)

// NewRouter builds the gin engine with logging, recovery and all API routes.
func NewRouter(log *slog.Logger, appMetrics *metrics.Metrics, nearby NearbyFinder, baskets BasketService) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(log), RequestLogger(log, appMetrics))

	shops := &shopHandler{log: log, nearby: nearby}
	carts := &basketHandler{log: log, baskets: baskets}

	v1 := router.Group("/api/v1")
	v1.POST("/shops/nearby", shops.Nearby)
	v1.GET("/shops/nearby/by-location", shops.NearbyByLocation)
	v1.POST("/geocode", shops.Geocode)

	users := v1.Group("/users/:user/basket")
	users.GET("", carts.Get)
	users.POST("/cart", carts.AddToCart)
	users.PATCH("/cart/:item", carts.UpdateQuantity)
	users.DELETE("/cart/:item", carts.RemoveFromCart)
	users.DELETE("/cart", carts.ClearCart)
	users.GET("/favorites/:product", carts.IsFavorite)
	users.POST("/favorites", carts.AddFavorite)
	users.DELETE("/favorites/:product", carts.RemoveFavorite)
	users.DELETE("/favorites", carts.ClearFavorites)

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "route not found")
	})

	return router
}

type errorResponse struct {
	Error string `json:"error"`
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}
