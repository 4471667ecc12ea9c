package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/UnknownOlympus/harvest/internal/geo"
	"github.com/UnknownOlympus/harvest/internal/models"
)

// Provider turns a free-text location into coordinates.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Errors shared by all providers.
var (
	ErrEmptyAddress       = errors.New("geocoding got empty address")
	ErrInvalidCoordinates = errors.New("geocoding returned invalid coordinates")
)

// checked rejects coordinates outside the valid latitude/longitude ranges.
func checked(provider string, lat, lng float64) (*models.Coordinates, error) {
	coords := models.Coordinates{Latitude: lat, Longitude: lng}
	if !geo.Valid(coords) {
		return nil, fmt.Errorf("%w: %s returned lat=%v lng=%v", ErrInvalidCoordinates, provider, lat, lng)
	}

	return &coords, nil
}
