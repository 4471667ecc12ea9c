package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/UnknownOlympus/harvest/internal/geo"
	"github.com/UnknownOlympus/harvest/internal/models"
)

// FetchShopsInBox returns active registry shops whose coordinates fall inside box,
// nearest to the box center first, so that limit cuts the farthest shops.
// The distance used for ordering is an equirectangular approximation; the
// ranker computes the exact one. A box crossing the antimeridian is queried
// as two longitude ranges.
// The rows are returned as raw records so that the ranker applies the same
// validation to registry data as to any other directory source.
func (r *Repository) FetchShopsInBox(ctx context.Context, box geo.Box, limit int) ([]models.RawShop, error) {
	query := `
		SELECT shop_id, name, address, description, latitude, longitude
		FROM public.shops
		WHERE
			is_active = true
			AND latitude BETWEEN $1 AND $2
			AND (longitude BETWEEN $3 AND $4 OR longitude BETWEEN $5 AND $6)
		ORDER BY
			power(latitude - $7, 2)
			+ power(least(abs(longitude - $8), 360 - abs(longitude - $8)) * cos(radians($7)), 2) ASC,
			shop_id ASC
		LIMIT $9;
	`

	ranges := box.LongitudeRanges()
	east := ranges[len(ranges)-1]

	rows, err := r.db.Query(ctx, query,
		box.MinLatitude, box.MaxLatitude,
		ranges[0].Min, ranges[0].Max,
		east.Min, east.Max,
		box.Center.Latitude, box.Center.Longitude,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops in area: %w", err)
	}
	defer rows.Close()

	shops := []models.RawShop{}
	for rows.Next() {
		var (
			id                   int
			name, address, descr string
			lat, lng             *float64
		)
		if errScan := rows.Scan(&id, &name, &address, &descr, &lat, &lng); errScan != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", errScan)
		}

		shop := models.RawShop{
			ID:          strconv.Itoa(id),
			Name:        name,
			Address:     address,
			Description: descr,
		}
		if lat != nil {
			shop.Lat = *lat
		}
		if lng != nil {
			shop.Lng = *lng
		}
		shops = append(shops, shop)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Fetched registry shops in area", "count", len(shops))

	return shops, nil
}

// FetchShopsForGeocoding retrieves registry shops that still need coordinates.
// It returns active shops that have a NULL latitude, fewer than 5 geocoding attempts
// and a non-empty address, oldest first and limited to the specified count.
func (r *Repository) FetchShopsForGeocoding(ctx context.Context, limit int) ([]models.PendingShop, error) {
	var shops []models.PendingShop
	query := `
		SELECT shop_id, address
		FROM public.shops
		WHERE
			latitude IS NULL
			AND is_active = true
			AND geocoding_attempts < 5
			AND address IS NOT NULL AND address <> ''
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops without coordinates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shop models.PendingShop
		if errScan := rows.Scan(&shop.ID, &shop.Address); errScan != nil {
			return nil, fmt.Errorf("failed to scan shop without coordinates: %w", errScan)
		}
		r.log.DebugContext(ctx, "Registry shop without coordinates received.",
			"ID", shop.ID, "Address", shop.Address)
		shops = append(shops, shop)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return shops, nil
}

// UpdateShopCoordinates stores the coordinates of a shop and clears its geocoding error.
func (r *Repository) UpdateShopCoordinates(ctx context.Context, shopID int, coords models.Coordinates) error {
	query := `
		UPDATE shops
		SET
			latitude = $1,
			longitude = $2,
			geocoding_error = NULL
		WHERE
			shop_id = $3;
	`

	_, err := r.db.Exec(ctx, query, coords.Latitude, coords.Longitude, shopID)
	if err != nil {
		return fmt.Errorf("failed to update shop coordinates: %w", err)
	}

	return nil
}

// IncrementFailureCount bumps the geocoding attempt count of a shop and records the error message.
func (r *Repository) IncrementFailureCount(ctx context.Context, shopID int, errMsg string) error {
	query := `
		UPDATE shops
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE shop_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, shopID)
	if err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}
