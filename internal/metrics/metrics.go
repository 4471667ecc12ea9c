package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ShopsRanked     prometheus.Counter
	ShopsDropped    prometheus.Counter
	NearbyRequests  *prometheus.CounterVec
	DirectorySecs   *prometheus.HistogramVec
	GeocodeCache    *prometheus.CounterVec
	TaskProcessed   *prometheus.CounterVec
	APIErrors       prometheus.Counter
	RequestSeconds  *prometheus.HistogramVec
	ActiveWorkers   prometheus.Gauge
	HTTPRequestSecs *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ShopsRanked: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "harvest_shops_ranked_total",
			Help: "Total number of shops returned by ranking passes.",
		}),
		ShopsDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "harvest_shops_dropped_total",
			Help: "Total number of shop records dropped for malformed coordinates.",
		}),
		NearbyRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "harvest_nearby_requests_total",
			Help: "Total number of nearby shop lookups by outcome.",
		}, []string{"status"}),
		DirectorySecs: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harvest_directory_request_duration_seconds",
			Help:    "Duration of shop directory lookups.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		GeocodeCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "harvest_geocode_cache_total",
			Help: "Geocoding cache lookups by result.",
		}, []string{"result"}),
		TaskProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "harvest_backfill_shops_processed_total",
			Help: "Total number of registry shops processed by the coordinate backfill.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "harvest_geocoding_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harvest_geocoding_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "harvest_backfill_active_workers",
			Help: "Current number of active workers geocoding registry shops.",
		}),
		HTTPRequestSecs: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harvest_http_request_duration_seconds",
			Help:    "Duration of API requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}
