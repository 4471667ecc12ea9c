package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/harvest/internal/geo"
	"github.com/UnknownOlympus/harvest/internal/models"
)

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	FetchShopsInBox(ctx context.Context, box geo.Box, limit int) ([]models.RawShop, error)
	FetchShopsForGeocoding(ctx context.Context, limit int) ([]models.PendingShop, error)
	UpdateShopCoordinates(ctx context.Context, shopID int, coords models.Coordinates) error
	IncrementFailureCount(ctx context.Context, shopID int, errMsg string) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
