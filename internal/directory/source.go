// Package directory provides the sources of nearby shop records.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/UnknownOlympus/harvest/internal/repository"
)

// Source returns raw shop records around a coordinate. Records are not
// validated; the ranker filters them.
type Source interface {
	Discover(ctx context.Context, center models.Coordinates) ([]models.RawShop, error)
}

// SourceType names a directory implementation.
type SourceType string

const (
	SourceTypeLLM      SourceType = "llm"
	SourceTypeRegistry SourceType = "registry"
)

// Config holds everything the factory may need to build a Source.
type Config struct {
	Type      SourceType
	BaseURL   string
	APIKey    string
	Model     string
	RateLimit int
	RadiusKm  float64
	Limit     int
	Repo      repository.Interface
	Logger    *slog.Logger
}

// NewSource creates the Source selected by config.Type.
func NewSource(config Config) (Source, error) {
	switch config.Type {
	case SourceTypeLLM:
		if config.APIKey == "" {
			return nil, errors.New("API key is required for llm directory")
		}
		return NewLLMSource(LLMConfig{
			BaseURL:   config.BaseURL,
			APIKey:    config.APIKey,
			Model:     config.Model,
			RateLimit: config.RateLimit,
		}, config.Logger), nil
	case SourceTypeRegistry:
		if config.Repo == nil {
			return nil, errors.New("repository is required for registry directory")
		}
		return NewRegistrySource(config.Repo, config.RadiusKm, config.Limit, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported directory source: %s", config.Type)
	}
}
