package config

import (
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration settings for the harvest service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server (health and metrics).
// - APIPort: The port for the public HTTP API.
// - ProviderType: The type of geocoding provider to use (google, nominatim, visicom).
// - APIKey: The API key for the geocoding provider.
// - Workers: The number of concurrent workers for the coordinate backfill.
// - Interval: The duration between backfill runs.
// - AddrPrefix: Prefix prepended to registry addresses before geocoding.
// - GeocodeCacheTTL: How long geocoding results stay cached.
// - Directory: Settings of the shop directory.
// - Database: Configuration settings for the PostgreSQL database.
// - Redis: Configuration settings for Redis.
type Config struct {
	Env             string
	Port            int
	APIPort         int
	ProviderType    string
	APIKey          string
	Workers         int
	Interval        time.Duration
	AddrPrefix      string
	GeocodeCacheTTL time.Duration
	Directory       DirectoryConfig
	Database        PostgresConfig
	Redis           RedisConfig
}

// DirectoryConfig selects and configures the source of nearby shops.
type DirectoryConfig struct {
	Source    string  // Source is either "llm" or "registry".
	BaseURL   string  // BaseURL of the chat completions API.
	APIKey    string  // APIKey for the chat completions API.
	Model     string  // Model requested from the chat completions API.
	RateLimit int     // RateLimit in requests per second.
	RadiusKm  float64 // RadiusKm bounds registry lookups around the user.
	Limit     int     // Limit is the maximum number of registry shops per lookup.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MustLoad reads the configuration from the environment (and an optional .env file)
// and returns a Config struct. It panics on values that cannot be parsed.
func MustLoad() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	v.SetDefault("HARVEST_ENV", "production")
	v.SetDefault("HARVEST_INTERVAL", "10m")
	v.SetDefault("HARVEST_HEALTH_PORT", "8080")
	v.SetDefault("HARVEST_API_PORT", "8000")
	v.SetDefault("HARVEST_WORKERS", "10")
	v.SetDefault("HARVEST_PROVIDER_TYPE", "nominatim")
	v.SetDefault("HARVEST_GEOCODE_CACHE_TTL", "720h")
	v.SetDefault("HARVEST_DIRECTORY_SOURCE", "llm")
	v.SetDefault("HARVEST_DIRECTORY_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("HARVEST_DIRECTORY_MODEL", "google/gemini-2.5-flash")
	v.SetDefault("HARVEST_DIRECTORY_RATE_LIMIT", "5")
	v.SetDefault("HARVEST_DIRECTORY_RADIUS_KM", "25")
	v.SetDefault("HARVEST_DIRECTORY_LIMIT", "50")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_DB", "0")

	interval, err := time.ParseDuration(v.GetString("HARVEST_INTERVAL"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	cacheTTL, err := time.ParseDuration(v.GetString("HARVEST_GEOCODE_CACHE_TTL"))
	if err != nil {
		panic("failed to parse geocode cache ttl from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("HARVEST_HEALTH_PORT"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	apiPort, err := strconv.Atoi(v.GetString("HARVEST_API_PORT"))
	if err != nil {
		panic("failed to parse port for api server from configuration")
	}

	workers, err := strconv.Atoi(v.GetString("HARVEST_WORKERS"))
	if err != nil || workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	rateLimit, err := strconv.Atoi(v.GetString("HARVEST_DIRECTORY_RATE_LIMIT"))
	if err != nil {
		panic("failed to parse directory rate limit from configuration")
	}

	radius, err := strconv.ParseFloat(v.GetString("HARVEST_DIRECTORY_RADIUS_KM"), 64)
	if err != nil || radius <= 0 {
		panic("failed to parse directory radius from configuration")
	}

	limit, err := strconv.Atoi(v.GetString("HARVEST_DIRECTORY_LIMIT"))
	if err != nil {
		panic("failed to parse directory limit from configuration")
	}

	redisDB, err := strconv.Atoi(v.GetString("REDIS_DB"))
	if err != nil {
		panic("failed to parse redis db from configuration")
	}

	return &Config{
		Env:             v.GetString("HARVEST_ENV"),
		Port:            healthPort,
		APIPort:         apiPort,
		ProviderType:    v.GetString("HARVEST_PROVIDER_TYPE"),
		APIKey:          v.GetString("HARVEST_PROVIDER_KEY"),
		Workers:         workers,
		Interval:        interval,
		AddrPrefix:      v.GetString("HARVEST_ADDRESS_PREFIX"),
		GeocodeCacheTTL: cacheTTL,
		Directory: DirectoryConfig{
			Source:    v.GetString("HARVEST_DIRECTORY_SOURCE"),
			BaseURL:   v.GetString("HARVEST_DIRECTORY_URL"),
			APIKey:    v.GetString("HARVEST_DIRECTORY_KEY"),
			Model:     v.GetString("HARVEST_DIRECTORY_MODEL"),
			RateLimit: rateLimit,
			RadiusKm:  radius,
			Limit:     limit,
		},
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       redisDB,
		},
	}
}
