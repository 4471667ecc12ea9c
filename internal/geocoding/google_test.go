package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/harvest/internal/geocoding"
	"github.com/UnknownOlympus/harvest/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, address)

		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("empty address is rejected before the api", func(t *testing.T) {
		coords, err := provider.Geocode(ctx, "   ")

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyAddress)
	})

	t.Run("out of range location", func(t *testing.T) {
		address := "broken geometry"
		req := &maps.GeocodingRequest{Address: address}
		response := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 123, Lng: 0}}},
		}

		mockClient.On("Geocode", ctx, req).Return(response, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrInvalidCoordinates)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful geocoding", func(t *testing.T) {
		address := "Borough Market, London"
		req := &maps.GeocodingRequest{Address: address}
		response := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 51.5055, Lng: -0.0910}}},
		}

		mockClient.On("Geocode", ctx, req).Return(response, nil).Once()

		coords, err := provider.Geocode(ctx, "  "+address+" ")

		require.NoError(t, err)
		require.NotNil(t, coords)
		require.InEpsilon(t, 51.5055, coords.Latitude, 0.0001)
		require.InEpsilon(t, -0.0910, coords.Longitude, 0.0001)
		mockClient.AssertExpectations(t)
	})
}
