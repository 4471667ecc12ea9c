package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/harvest/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	tests := []struct {
		name    string
		config  geocoding.ProviderConfig
		wantErr string
		check   func(t *testing.T, provider geocoding.Provider)
	}{
		{
			name:   "google with rate limit",
			config: geocoding.ProviderConfig{Type: geocoding.ProviderTypeGoogle, APIKey: "key", RateLimit: 10},
			check: func(t *testing.T, provider geocoding.Provider) {
				_, ok := provider.(*geocoding.GoogleProvider)
				assert.True(t, ok, "expected provider to be *GoogleProvider")
			},
		},
		{
			name:   "google without rate limit",
			config: geocoding.ProviderConfig{Type: geocoding.ProviderTypeGoogle, APIKey: "key"},
		},
		{
			name:    "google without API key",
			config:  geocoding.ProviderConfig{Type: geocoding.ProviderTypeGoogle},
			wantErr: "API key is required for Google provider",
		},
		{
			name:   "nominatim needs no API key",
			config: geocoding.ProviderConfig{Type: geocoding.ProviderTypeNominatim},
			check: func(t *testing.T, provider geocoding.Provider) {
				_, ok := provider.(*geocoding.NominatimProvider)
				assert.True(t, ok, "expected provider to be *NominatimProvider")
			},
		},
		{
			name:   "visicom with default rate limit",
			config: geocoding.ProviderConfig{Type: geocoding.ProviderTypeVisicom, APIKey: "key"},
			check: func(t *testing.T, provider geocoding.Provider) {
				_, ok := provider.(*geocoding.VisicomProvider)
				assert.True(t, ok, "expected provider to be *VisicomProvider")
			},
		},
		{
			name:    "visicom without API key",
			config:  geocoding.ProviderConfig{Type: geocoding.ProviderTypeVisicom},
			wantErr: "API key is required for Visicom provider",
		},
		{
			name:    "unsupported provider type",
			config:  geocoding.ProviderConfig{Type: geocoding.ProviderType("unsupported")},
			wantErr: "unsupported provider type: unsupported",
		},
		{
			name:    "empty provider type",
			config:  geocoding.ProviderConfig{},
			wantErr: "unsupported provider type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Logger = logger

			provider, err := geocoding.NewProvider(tt.config)

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				require.Nil(t, provider)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, provider)
			if tt.check != nil {
				tt.check(t, provider)
			}
		})
	}
}

func TestProviderType_Constants(t *testing.T) {
	assert.Equal(t, "google", string(geocoding.ProviderTypeGoogle))
	assert.Equal(t, "nominatim", string(geocoding.ProviderTypeNominatim))
	assert.Equal(t, "visicom", string(geocoding.ProviderTypeVisicom))
}
