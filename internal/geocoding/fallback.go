package geocoding

import (
	"context"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/harvest/internal/models"
)

// knownCity is a fixed location used when the real provider cannot answer.
type knownCity struct {
	key    string
	name   string
	coords models.Coordinates
}

// Order matters: the first key contained in the query wins.
var knownCities = []knownCity{
	{key: "london", name: "London, UK", coords: models.Coordinates{Latitude: 51.5074, Longitude: -0.1278}},
	{key: "mumbai", name: "Mumbai, India", coords: models.Coordinates{Latitude: 19.0760, Longitude: 72.8777}},
	{key: "delhi", name: "Delhi, India", coords: models.Coordinates{Latitude: 28.6139, Longitude: 77.2090}},
	{key: "new york", name: "New York, USA", coords: models.Coordinates{Latitude: 40.7128, Longitude: -74.0060}},
	{key: "paris", name: "Paris, France", coords: models.Coordinates{Latitude: 48.8566, Longitude: 2.3522}},
}

// FallbackProvider answers from a small table of well known cities when the
// wrapped provider fails. The provider error is returned if no city matches.
type FallbackProvider struct {
	next Provider
	log  *slog.Logger
}

// NewFallbackProvider wraps next with the known-cities fallback.
func NewFallbackProvider(next Provider, log *slog.Logger) *FallbackProvider {
	return &FallbackProvider{next: next, log: log}
}

func (fp *FallbackProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	coords, err := fp.next.Geocode(ctx, address)
	if err == nil {
		return coords, nil
	}

	normalized := strings.ToLower(strings.TrimSpace(address))
	if normalized == "" {
		return nil, err
	}

	for _, city := range knownCities {
		if strings.Contains(normalized, city.key) {
			fp.log.WarnContext(ctx, "Geocoding provider failed, using known city",
				"address", address,
				"city", city.name,
				"error", err)
			resolved := city.coords
			return &resolved, nil
		}
	}

	return nil, err
}
