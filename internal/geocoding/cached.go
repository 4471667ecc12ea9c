package geocoding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/harvest/internal/cache"
	"github.com/UnknownOlympus/harvest/internal/geo"
	"github.com/UnknownOlympus/harvest/internal/metrics"
	"github.com/UnknownOlympus/harvest/internal/models"
)

const cacheKeyPrefix = "harvest:geocode:v1:"

// CachedProvider is a read-through cache in front of another provider.
// Cache errors are logged and never fail a lookup.
type CachedProvider struct {
	next    Provider
	store   cache.Store
	ttl     time.Duration
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewCachedProvider wraps next with a cache kept in store for ttl.
func NewCachedProvider(
	next Provider,
	store cache.Store,
	ttl time.Duration,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *CachedProvider {
	return &CachedProvider{next: next, store: store, ttl: ttl, log: log, metrics: metrics}
}

func (cp *CachedProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	if normalized == "" {
		return nil, ErrEmptyAddress
	}
	key := cacheKey(normalized)

	payload, err := cp.store.Get(ctx, key)
	switch {
	case err == nil:
		var coords models.Coordinates
		if errDecode := json.Unmarshal(payload, &coords); errDecode == nil && geo.Valid(coords) {
			cp.metrics.GeocodeCache.WithLabelValues("hit").Inc()
			return &coords, nil
		}
		cp.log.WarnContext(ctx, "Discarding unreadable geocoding cache entry", "key", key)
		if errDelete := cp.store.Delete(ctx, key); errDelete != nil {
			cp.log.WarnContext(ctx, "Geocoding cache delete failed", "key", key, "error", errDelete)
		}
	case errors.Is(err, cache.ErrNotFound):
	default:
		cp.log.WarnContext(ctx, "Geocoding cache read failed", "key", key, "error", err)
	}
	cp.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	coords, err := cp.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if payload, err = json.Marshal(coords); err == nil {
		if err = cp.store.Set(ctx, key, payload, cp.ttl); err != nil {
			cp.log.WarnContext(ctx, "Geocoding cache write failed", "key", key, "error", err)
		}
	}

	return coords, nil
}

func cacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
