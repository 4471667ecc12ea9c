package repository

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed migrations/001_shops.sql
var shopsSchema string

// Migrate creates the shop registry schema if it does not exist yet.
func Migrate(ctx context.Context, db Database) error {
	if _, err := db.Exec(ctx, shopsSchema); err != nil {
		return fmt.Errorf("failed to apply shops schema: %w", err)
	}

	return nil
}
