// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Dataset loading (DuckDB CSV ingest)
// - Recommendation engine latency and throughput
// - Response cache efficiency
// - API endpoint latency and throughput
// - Remote embedding calls and circuit breaker state

var (
	// Dataset Loading Metrics
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Duration of full dataset loads in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120}, // Large MovieLens dumps can take minutes
		},
	)

	DatasetMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_movies",
			Help: "Number of movies in the loaded dataset",
		},
	)

	DatasetRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_ratings",
			Help: "Number of ratings in the loaded dataset",
		},
	)

	DatasetTags = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_tags",
			Help: "Number of tag applications in the loaded dataset",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Recommendation Engine Metrics
	CorpusEncodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "corpus_encode_duration_seconds",
			Help:    "Duration of one-time corpus encoding in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600}, // Remote embedding of a full corpus can take minutes
		},
		[]string{"strategy"},
	)

	CorpusDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_documents",
			Help: "Number of documents in the encoded corpus",
		},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"strategy", "result"}, // result: "ok", "empty_query", "error"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "recommend"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Remote Embedding Metrics
	EmbedRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embed_request_duration_seconds",
			Help:    "Duration of remote embedding requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmbedBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embed_batch_size",
			Help:    "Number of texts per embedding request",
			Buckets: []float64{1, 8, 16, 32, 64, 128, 256, 512},
		},
	)

	EmbedErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embed_errors_total",
			Help: "Total number of failed embedding requests",
		},
		[]string{"error_type"}, // "http", "decode", "rejected"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Feedback Metrics
	FeedbackReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_received_total",
			Help: "Total number of feedback submissions",
		},
		[]string{"result"}, // "accepted", "empty", "invalid"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordDatasetLoad records a completed dataset load
func RecordDatasetLoad(duration time.Duration, movies, ratings, tags int) {
	DatasetLoadDuration.Observe(duration.Seconds())
	DatasetMovies.Set(float64(movies))
	DatasetRatings.Set(float64(ratings))
	DatasetTags.Set(float64(tags))
}

// RecordCorpusEncode records a corpus encoding pass
func RecordCorpusEncode(strategy string, duration time.Duration, documents int) {
	CorpusEncodeDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	CorpusDocuments.Set(float64(documents))
}

// RecordRecommendation records a recommendation request metric
func RecordRecommendation(strategy, result string, duration time.Duration) {
	RecommendRequests.WithLabelValues(strategy, result).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit records a cache hit for the given cache type
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheEviction records a cache eviction for the given cache type
func RecordCacheEviction(cacheType string) {
	CacheEvictions.WithLabelValues(cacheType).Inc()
}

// RecordEmbedRequest records a remote embedding request
func RecordEmbedRequest(duration time.Duration, batchSize int, err error) {
	EmbedRequestDuration.Observe(duration.Seconds())
	EmbedBatchSize.Observe(float64(batchSize))
	if err != nil {
		errorType := "http"
		errorMsg := err.Error()
		switch {
		case contains(errorMsg, "decode"):
			errorType = "decode"
		case contains(errorMsg, "circuit breaker"):
			errorType = "rejected"
		}
		EmbedErrors.WithLabelValues(errorType).Inc()
	}
}

// RecordBreakerTransition records a circuit breaker state transition
func RecordBreakerTransition(name, fromState, toState string) {
	CircuitBreakerTransitions.WithLabelValues(name, fromState, toState).Inc()
}

// SetBreakerState sets the circuit breaker state gauge
// (0=closed, 1=half-open, 2=open)
func SetBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordFeedback records a feedback submission outcome
func RecordFeedback(result string) {
	FeedbackReceived.WithLabelValues(result).Inc()
}

// Helper function to check if string contains substring
func contains(s, substr string) bool {
	return len(s) >= len(substr) && s[:len(substr)] == substr
}
