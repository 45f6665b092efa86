package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buckets tuned for a REST backend answering in milliseconds to a few seconds
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13}

	// HTTP server metrics (reference backend)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// API client metrics
	APIClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_client_request_duration_seconds",
			Help:    "Backend call duration as seen by the API client",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "status"},
	)

	APIClientRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_request_total",
			Help: "Total number of backend calls made by the API client",
		},
		[]string{"http_request_method", "status"},
	)

	APIClientErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_errors_total",
			Help: "Normalized errors produced by the API client, by kind",
		},
		[]string{"kind"},
	)

	BackendBreakerOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "api_client_breaker_open",
			Help: "1 while the backend circuit breaker rejects calls",
		},
		[]string{"breaker"},
	)

	// Session metrics
	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abroadmap_session_transitions_total",
			Help: "Session state transitions performed by the session resolver",
		},
		[]string{"from", "to"},
	)

	SessionLogoutFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abroadmap_session_logout_failures_total",
			Help: "Backend logout calls that failed while the session was still cleared",
		},
		[]string{"role"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Business metrics (reference backend)
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abroadmap_auth_attempts_total",
			Help: "Signup and login attempts by role and outcome",
		},
		[]string{"role", "action", "status"},
	)

	FavoriteChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abroadmap_favorite_changes_total",
			Help: "Favorites added or removed",
		},
		[]string{"action"},
	)

	ReviewSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abroadmap_review_submissions_total",
			Help: "Program reviews submitted by alumni",
		},
		[]string{"status"},
	)
)

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
