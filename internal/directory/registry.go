package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/harvest/internal/geo"
	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/UnknownOlympus/harvest/internal/repository"
)

// RegistrySource reads shops from the PostgreSQL registry.
type RegistrySource struct {
	repo     repository.Interface
	radiusKm float64
	limit    int
	log      *slog.Logger
}

// NewRegistrySource creates a RegistrySource returning at most limit shops within radiusKm.
func NewRegistrySource(repo repository.Interface, radiusKm float64, limit int, log *slog.Logger) *RegistrySource {
	return &RegistrySource{repo: repo, radiusKm: radiusKm, limit: limit, log: log}
}

// Discover returns registry shops inside the bounding box of the configured radius,
// nearest first. Corners of the box lie further than the radius; the ranker's distances are
// authoritative.
func (rs *RegistrySource) Discover(ctx context.Context, center models.Coordinates) ([]models.RawShop, error) {
	box := geo.BoundingBox(center, rs.radiusKm)

	shops, err := rs.repo.FetchShopsInBox(ctx, box, rs.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to discover registry shops: %w", err)
	}

	rs.log.DebugContext(ctx, "Registry shops discovered", "center", center, "radius_km", rs.radiusKm, "count", len(shops))

	return shops, nil
}
