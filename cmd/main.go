package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/harvest/internal/api"
	"github.com/UnknownOlympus/harvest/internal/basket"
	"github.com/UnknownOlympus/harvest/internal/cache"
	"github.com/UnknownOlympus/harvest/internal/config"
	"github.com/UnknownOlympus/harvest/internal/directory"
	"github.com/UnknownOlympus/harvest/internal/geocoding"
	"github.com/UnknownOlympus/harvest/internal/metrics"
	"github.com/UnknownOlympus/harvest/internal/ranking"
	"github.com/UnknownOlympus/harvest/internal/repository"
	"github.com/UnknownOlympus/harvest/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// healthCheck is a named dependency probed by /healthz.
type healthCheck struct {
	name string
	ping func(ctx context.Context) error
}

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	var checks []healthCheck

	// Key-value store for the geocoding cache and baskets.
	store := cache.Store(cache.NewMemoryStore())
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		store = cache.NewRedisStore(redisClient)
		checks = append(checks, healthCheck{name: "Redis", ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	} else {
		logger.WarnContext(ctx, "Redis is not configured, baskets and geocoding cache are kept in memory")
	}

	// The shop registry is optional; without it the backfill is disabled.
	var repo repository.Interface
	if cfg.Database.Host != "" {
		dtb, err := repository.NewDatabase(
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()

		if err = repository.Migrate(ctx, dtb); err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}

		repo = repository.NewRepository(dtb, logger)
		checks = append(checks, healthCheck{name: "DB", ping: dtb.Ping})
	}

	// Create geocoding provider using factory pattern based on configuration
	// This allows runtime selection between different providers (Google, Visicom, Nominatim, etc.)
	rateLimit := 50
	providerConfig := geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		RateLimit: rateLimit / cfg.Workers,
		Logger:    logger,
	}

	geoProvider, err := geocoding.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	cachedProvider := geocoding.NewCachedProvider(geoProvider, store, cfg.GeocodeCacheTTL, logger, appMetrics)

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)

	source, err := directory.NewSource(directory.Config{
		Type:      directory.SourceType(cfg.Directory.Source),
		BaseURL:   cfg.Directory.BaseURL,
		APIKey:    cfg.Directory.APIKey,
		Model:     cfg.Directory.Model,
		RateLimit: cfg.Directory.RateLimit,
		RadiusKm:  cfg.Directory.RadiusKm,
		Limit:     cfg.Directory.Limit,
		Repo:      repo,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create shop directory: %v", err)
	}

	nearby := service.NewNearbyService(
		logger,
		source,
		cfg.Directory.Source,
		geocoding.NewFallbackProvider(cachedProvider, logger),
		ranking.NewRanker(logger, appMetrics),
		appMetrics,
	)
	baskets := basket.NewService(basket.NewStoreRepository(store, logger), logger)

	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	apiServer := newServer(cfg.APIPort, api.NewRouter(logger, appMetrics, nearby, baskets))

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, checks, cfg.Port)

	go func() {
		logger.InfoContext(ctx, "Starting API server", "port", cfg.APIPort)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "API server failed", "error", err)
		}
	}()

	if repo != nil {
		backfill := service.NewBackfillService(
			logger,
			repo,
			cachedProvider,
			cfg.ProviderType, // Provider name for metrics
			appMetrics,
			cfg.Workers,
			cfg.Interval,
			cfg.AddrPrefix,
		)
		go backfill.Run(ctx)
	} else {
		logger.InfoContext(ctx, "Shop registry is not configured, coordinate backfill disabled")
	}

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownTimeout := 10
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()
	if err = apiServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "API server shutdown failed", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

func newServer(port int, handler http.Handler) *http.Server {
	readTimeout := 5
	writeTimeout := 60
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - checks: Dependencies pinged on every health check.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	checks []healthCheck,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		for _, check := range checks {
			if err := check.ping(req.Context()); err != nil {
				status, body = http.StatusServiceUnavailable, check.name+" ping failed"
				break
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	server := newServer(port, mux)
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
