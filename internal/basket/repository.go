// Package basket keeps the per-user cart and favorites.
package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/harvest/internal/cache"
	"github.com/UnknownOlympus/harvest/internal/models"
)

const keyPrefix = "basket:"

// Repository persists one basket per user.
type Repository interface {
	Load(ctx context.Context, userID string) (models.Basket, error)
	Save(ctx context.Context, userID string, basket models.Basket) error
}

// StoreRepository keeps baskets as JSON documents in a cache.Store.
type StoreRepository struct {
	store cache.Store
	log   *slog.Logger
}

// NewStoreRepository creates a StoreRepository backed by store.
func NewStoreRepository(store cache.Store, log *slog.Logger) *StoreRepository {
	return &StoreRepository{store: store, log: log}
}

// Load returns the saved basket of userID. A missing or undecodable document
// yields an empty basket.
func (r *StoreRepository) Load(ctx context.Context, userID string) (models.Basket, error) {
	raw, err := r.store.Get(ctx, keyPrefix+userID)
	if errors.Is(err, cache.ErrNotFound) {
		return models.Basket{}, nil
	}
	if err != nil {
		return models.Basket{}, fmt.Errorf("failed to load basket: %w", err)
	}

	var basket models.Basket
	if err = json.Unmarshal(raw, &basket); err != nil {
		r.log.WarnContext(ctx, "Discarding corrupt basket", "user", userID, "error", err)
		return models.Basket{}, nil
	}

	return basket, nil
}

// Save stores basket for userID without expiry.
func (r *StoreRepository) Save(ctx context.Context, userID string, basket models.Basket) error {
	raw, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("failed to encode basket: %w", err)
	}

	if err = r.store.Set(ctx, keyPrefix+userID, raw, 0); err != nil {
		return fmt.Errorf("failed to save basket: %w", err)
	}

	return nil
}
