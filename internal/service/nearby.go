// Package service holds the application use cases: nearby shop lookup and the
// coordinate backfill of the shop registry.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/harvest/internal/directory"
	"github.com/UnknownOlympus/harvest/internal/geo"
	"github.com/UnknownOlympus/harvest/internal/geocoding"
	"github.com/UnknownOlympus/harvest/internal/metrics"
	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/UnknownOlympus/harvest/internal/ranking"
)

var (
	ErrInvalidCoordinates = errors.New("invalid user coordinates")
	ErrEmptyLocation      = errors.New("location is required")
)

// NearbyResult is a ranked shop list. Center is set when the lookup started
// from a free-text location.
type NearbyResult struct {
	Center  *models.Coordinates `json:"center,omitempty"`
	Shops   []models.Shop       `json:"shops"`
	Dropped int                 `json:"dropped"`
}

// NearbyService resolves a location, discovers shops around it and ranks them by distance.
type NearbyService struct {
	log        *slog.Logger
	directory  directory.Source
	sourceName string
	geocoder   geocoding.Provider
	ranker     *ranking.Ranker
	metrics    *metrics.Metrics
}

// NewNearbyService creates a NearbyService reading shops from source.
func NewNearbyService(
	log *slog.Logger,
	source directory.Source,
	sourceName string,
	geocoder geocoding.Provider,
	ranker *ranking.Ranker,
	metrics *metrics.Metrics,
) *NearbyService {
	return &NearbyService{
		log:        log,
		directory:  source,
		sourceName: sourceName,
		geocoder:   geocoder,
		ranker:     ranker,
		metrics:    metrics,
	}
}

// FindNearby discovers shops around user and returns them nearest first.
// Invalid user coordinates are rejected before the directory is queried.
func (ns *NearbyService) FindNearby(ctx context.Context, user models.Coordinates) (NearbyResult, error) {
	if !geo.Valid(user) {
		ns.metrics.NearbyRequests.WithLabelValues("invalid").Inc()
		return NearbyResult{}, ErrInvalidCoordinates
	}

	startTime := time.Now()
	raw, err := ns.directory.Discover(ctx, user)
	ns.metrics.DirectorySecs.WithLabelValues(ns.sourceName).Observe(time.Since(startTime).Seconds())
	if err != nil {
		ns.metrics.NearbyRequests.WithLabelValues("error").Inc()
		return NearbyResult{}, fmt.Errorf("failed to discover shops: %w", err)
	}

	shops, dropped := ns.ranker.Rank(ctx, user, raw)
	ns.metrics.NearbyRequests.WithLabelValues("success").Inc()

	return NearbyResult{Shops: shops, Dropped: dropped}, nil
}

// Geocode resolves a free-text location to coordinates.
func (ns *NearbyService) Geocode(ctx context.Context, location string) (*models.Coordinates, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	coords, err := ns.geocoder.Geocode(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode location: %w", err)
	}

	return coords, nil
}

// FindNearbyByLocation geocodes location and ranks the shops around it.
func (ns *NearbyService) FindNearbyByLocation(ctx context.Context, location string) (NearbyResult, error) {
	center, err := ns.Geocode(ctx, location)
	if err != nil {
		return NearbyResult{}, err
	}

	result, err := ns.FindNearby(ctx, *center)
	if err != nil {
		return NearbyResult{}, err
	}
	result.Center = center

	return result, nil
}
