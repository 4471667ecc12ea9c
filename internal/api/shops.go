package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/UnknownOlympus/harvest/internal/service"
	"github.com/gin-gonic/gin"
)

type shopHandler struct {
	log    *slog.Logger
	nearby NearbyFinder
}

type nearbyRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type geocodeRequest struct {
	Location string `json:"location"`
}

type geocodeResponse struct {
	Coordinates *models.Coordinates `json:"coordinates"`
}

func (h *shopHandler) Nearby(c *gin.Context) {
	var req nearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	result, err := h.nearby.FindNearby(c.Request.Context(), models.Coordinates{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *shopHandler) NearbyByLocation(c *gin.Context) {
	result, err := h.nearby.FindNearbyByLocation(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *shopHandler) Geocode(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	coords, err := h.nearby.Geocode(c.Request.Context(), req.Location)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, geocodeResponse{Coordinates: coords})
}

// fail maps caller mistakes to 400 and upstream failures to 502.
func (h *shopHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrInvalidCoordinates), errors.Is(err, service.ErrEmptyLocation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		h.log.ErrorContext(c.Request.Context(), "Shop lookup failed", "error", err)
		abortWithError(c, http.StatusBadGateway, "upstream lookup failed")
	}
}
