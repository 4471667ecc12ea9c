package ranking

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/UnknownOlympus/harvest/internal/geo"
	"github.com/UnknownOlympus/harvest/internal/metrics"
	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/spf13/cast"
)

// Rank annotates every well-formed shop with its distance from user and returns
// them nearest first. Shops with missing, non-numeric or out-of-range
// coordinates are left out and counted in dropped. Shops at equal distance keep
// their input order.
//
// An invalid user coordinate yields an empty result.
func Rank(user models.Coordinates, shops []models.RawShop) ([]models.Shop, int) {
	ranked := make([]models.Shop, 0, len(shops))
	if !geo.Valid(user) {
		return ranked, 0
	}

	dropped := 0
	for _, raw := range shops {
		shop, ok := Normalize(raw)
		if !ok {
			dropped++
			continue
		}
		shop.Distance = geo.Distance(user, shop.Coordinates)
		ranked = append(ranked, shop)
	}

	slices.SortStableFunc(ranked, func(a, b models.Shop) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return ranked, dropped
}

// Normalize coerces a raw record into a Shop. It reports false when the
// coordinates cannot be read as numbers or fall outside the valid ranges.
func Normalize(raw models.RawShop) (models.Shop, bool) {
	lat, ok := toDegrees(raw.Lat)
	if !ok {
		return models.Shop{}, false
	}
	lng, ok := toDegrees(raw.Lng)
	if !ok {
		return models.Shop{}, false
	}

	coords := models.Coordinates{Latitude: lat, Longitude: lng}
	if !geo.Valid(coords) {
		return models.Shop{}, false
	}

	return models.Shop{
		ID:          raw.ID,
		Name:        raw.Name,
		Address:     raw.Address,
		Description: raw.Description,
		Coordinates: coords,
	}, true
}

func toDegrees(value any) (float64, bool) {
	switch v := value.(type) {
	case nil, bool:
		return 0, false
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, false
		}
		value = v
	}

	deg, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, false
	}

	return deg, true
}

// Ranker wraps Rank with logging and metrics for dropped records.
type Ranker struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewRanker creates a Ranker.
func NewRanker(log *slog.Logger, metrics *metrics.Metrics) *Ranker {
	return &Ranker{log: log, metrics: metrics}
}

// Rank ranks shops around user, see Rank.
func (r *Ranker) Rank(ctx context.Context, user models.Coordinates, shops []models.RawShop) ([]models.Shop, int) {
	ranked, dropped := Rank(user, shops)

	if dropped > 0 {
		r.log.WarnContext(ctx, "Dropped shops with malformed coordinates",
			"dropped", dropped,
			"received", len(shops))
		r.metrics.ShopsDropped.Add(float64(dropped))
	}
	r.metrics.ShopsRanked.Add(float64(len(ranked)))
	r.log.DebugContext(ctx, "Shops ranked", "user", user, "ranked", len(ranked))

	return ranked, dropped
}
