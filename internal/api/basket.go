package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/harvest/internal/basket"
	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/gin-gonic/gin"
)

type basketHandler struct {
	log     *slog.Logger
	baskets BasketService
}

type basketResponse struct {
	Basket  models.Basket  `json:"basket"`
	Summary basket.Summary `json:"summary"`
}

type addToCartRequest struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type favoriteRequest struct {
	Product models.Product `json:"product"`
}

func (h *basketHandler) Get(c *gin.Context) {
	current, err := h.baskets.Basket(c.Request.Context(), c.Param("user"))
	h.respond(c, current, err)
}

func (h *basketHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Product.ID < 1 {
		abortWithError(c, http.StatusBadRequest, "product is required")
		return
	}

	updated, err := h.baskets.AddToCart(c.Request.Context(), c.Param("user"), req.Product, req.Quantity)
	h.respond(c, updated, err)
}

func (h *basketHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "quantity is required")
		return
	}

	updated, err := h.baskets.UpdateQuantity(c.Request.Context(), c.Param("user"), c.Param("item"), *req.Quantity)
	h.respond(c, updated, err)
}

func (h *basketHandler) RemoveFromCart(c *gin.Context) {
	updated, err := h.baskets.RemoveFromCart(c.Request.Context(), c.Param("user"), c.Param("item"))
	h.respond(c, updated, err)
}

func (h *basketHandler) ClearCart(c *gin.Context) {
	updated, err := h.baskets.ClearCart(c.Request.Context(), c.Param("user"))
	h.respond(c, updated, err)
}

func (h *basketHandler) IsFavorite(c *gin.Context) {
	productID, ok := productParam(c)
	if !ok {
		return
	}

	favorite, err := h.baskets.IsFavorite(c.Request.Context(), c.Param("user"), productID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

func (h *basketHandler) AddFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Product.ID < 1 {
		abortWithError(c, http.StatusBadRequest, "product is required")
		return
	}

	updated, err := h.baskets.AddFavorite(c.Request.Context(), c.Param("user"), req.Product)
	h.respond(c, updated, err)
}

func (h *basketHandler) RemoveFavorite(c *gin.Context) {
	productID, ok := productParam(c)
	if !ok {
		return
	}

	updated, err := h.baskets.RemoveFavorite(c.Request.Context(), c.Param("user"), productID)
	h.respond(c, updated, err)
}

func (h *basketHandler) ClearFavorites(c *gin.Context) {
	updated, err := h.baskets.ClearFavorites(c.Request.Context(), c.Param("user"))
	h.respond(c, updated, err)
}

func (h *basketHandler) respond(c *gin.Context, current models.Basket, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, basketResponse{Basket: current, Summary: basket.Summarize(current)})
}

func (h *basketHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, basket.ErrItemNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, basket.ErrAlreadyFavorite):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		h.log.ErrorContext(c.Request.Context(), "Basket operation failed", "user", c.Param("user"), "error", err)
		abortWithError(c, http.StatusInternalServerError, "basket unavailable")
	}
}

func productParam(c *gin.Context) (int, bool) {
	productID, err := strconv.Atoi(c.Param("product"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "product must be an integer id")
		return 0, false
	}

	return productID, true
}
