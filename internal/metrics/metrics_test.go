// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getCounterValue extracts the value from a Prometheus counter
func getCounterValue(counter prometheus.Counter) float64 {
	var m io_prometheus_client.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// getGaugeValue extracts the value from a Prometheus gauge
func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful movies load",
			operation: "SELECT",
			table:     "movies",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful ratings aggregate",
			operation: "SELECT",
			table:     "ratings",
			duration:  50 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "SELECT",
			table:     "tags",
			duration:  5 * time.Millisecond,
			err:       errors.New("file not found"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "SELECT",
			table:     "movies",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	err50 := errors.New(strings.Repeat("a", 50))
	RecordDBQuery("SELECT", "test", time.Millisecond, err50)

	err51 := errors.New(strings.Repeat("b", 51))
	RecordDBQuery("SELECT", "test", time.Millisecond, err51)

	err100 := errors.New(strings.Repeat("c", 100))
	RecordDBQuery("SELECT", "test", time.Millisecond, err100)
}

// TestRecordDatasetLoad tests dataset load metric recording
func TestRecordDatasetLoad(t *testing.T) {
	RecordDatasetLoad(2*time.Second, 9742, 100836, 3683)

	if got := getGaugeValue(DatasetMovies); got != 9742 {
		t.Errorf("DatasetMovies = %f, want 9742", got)
	}
	if got := getGaugeValue(DatasetRatings); got != 100836 {
		t.Errorf("DatasetRatings = %f, want 100836", got)
	}
	if got := getGaugeValue(DatasetTags); got != 3683 {
		t.Errorf("DatasetTags = %f, want 3683", got)
	}
}

// TestRecordCorpusEncode tests corpus encoding metric recording
func TestRecordCorpusEncode(t *testing.T) {
	RecordCorpusEncode("lexical", 500*time.Millisecond, 9742)

	if got := getGaugeValue(CorpusDocuments); got != 9742 {
		t.Errorf("CorpusDocuments = %f, want 9742", got)
	}

	RecordCorpusEncode("semantic", 30*time.Second, 9742)
}

// TestRecordRecommendation tests recommendation metric recording
func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		result   string
		duration time.Duration
	}{
		{"lexical ok", "lexical", "ok", 10 * time.Millisecond},
		{"lexical empty query", "lexical", "empty_query", time.Millisecond},
		{"semantic ok", "semantic", "ok", 50 * time.Millisecond},
		{"semantic error", "semantic", "error", 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordRecommendation(tt.strategy, tt.result, tt.duration)
		})
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful recommend request",
			method:     "GET",
			endpoint:   "/recommend",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "successful genre request",
			method:     "GET",
			endpoint:   "/top-genres",
			statusCode: "200",
			duration:   2 * time.Millisecond,
		},
		{
			name:       "bad feedback body",
			method:     "POST",
			endpoint:   "/feedback",
			statusCode: "400",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "GET",
			endpoint:   "/recommend",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestTrackActiveRequest tests active request tracking
func TestTrackActiveRequest(t *testing.T) {
	before := getGaugeValue(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)

	after := getGaugeValue(APIActiveRequests)
	if after != before+1 {
		t.Errorf("APIActiveRequests = %f, want %f", after, before+1)
	}

	TrackActiveRequest(false)
}

// TestCacheMetrics tests cache metric recording
func TestCacheMetrics(t *testing.T) {
	before := getCounterValue(CacheHits.WithLabelValues("recommend"))

	RecordCacheHit("recommend")
	RecordCacheMiss("recommend")
	RecordCacheEviction("recommend")

	after := getCounterValue(CacheHits.WithLabelValues("recommend"))
	if after != before+1 {
		t.Errorf("CacheHits = %f, want %f", after, before+1)
	}
}

// TestRecordEmbedRequest tests embedding request metric recording
func TestRecordEmbedRequest(t *testing.T) {
	tests := []struct {
		name      string
		duration  time.Duration
		batchSize int
		err       error
	}{
		{"successful batch", 200 * time.Millisecond, 64, nil},
		{"http failure", time.Second, 64, errors.New("http status 500")},
		{"decode failure", 100 * time.Millisecond, 32, errors.New("decode embeddings: unexpected EOF")},
		{"breaker rejection", time.Millisecond, 64, errors.New("circuit breaker is open")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordEmbedRequest(tt.duration, tt.batchSize, tt.err)
		})
	}
}

// TestCircuitBreakerMetrics tests circuit breaker metric recording
func TestCircuitBreakerMetrics(t *testing.T) {
	cbName := "embedder"

	SetBreakerState(cbName, 0) // closed
	SetBreakerState(cbName, 2) // open
	SetBreakerState(cbName, 1) // half-open

	CircuitBreakerRequests.WithLabelValues(cbName, "success").Inc()
	CircuitBreakerRequests.WithLabelValues(cbName, "failure").Inc()
	CircuitBreakerRequests.WithLabelValues(cbName, "rejected").Inc()

	RecordBreakerTransition(cbName, "closed", "open")
	RecordBreakerTransition(cbName, "open", "half-open")
	RecordBreakerTransition(cbName, "half-open", "closed")
}

// TestRecordFeedback tests feedback metric recording
func TestRecordFeedback(t *testing.T) {
	results := []string{"accepted", "empty", "invalid"}

	for _, result := range results {
		t.Run(result, func(t *testing.T) {
			RecordFeedback(result)
		})
	}
}

// TestContains tests the contains helper function
func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		substr   string
		expected bool
	}{
		{
			name:     "substring at start",
			s:        "decode embeddings failed",
			substr:   "decode",
			expected: true,
		},
		{
			name:     "substring not at start",
			s:        "failed to decode",
			substr:   "decode",
			expected: false,
		},
		{
			name:     "empty substring - always true",
			s:        "any string",
			substr:   "",
			expected: true,
		},
		{
			name:     "substring longer than string",
			s:        "hi",
			substr:   "hello",
			expected: false,
		},
		{
			name:     "exact match",
			s:        "circuit breaker",
			substr:   "circuit breaker",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := contains(tt.s, tt.substr)
			if result != tt.expected {
				t.Errorf("contains(%q, %q) = %v, want %v", tt.s, tt.substr, result, tt.expected)
			}
		})
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 50
	operationsPerGoroutine := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordDBQuery("SELECT", "movies", time.Duration(j)*time.Millisecond, nil)
				RecordAPIRequest("GET", "/recommend", "200", time.Duration(j)*time.Millisecond)
				RecordRecommendation("lexical", "ok", time.Duration(j)*time.Millisecond)
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}

	wg.Wait()
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	metrics := []prometheus.Collector{
		DatasetLoadDuration,
		DatasetMovies,
		DatasetRatings,
		DatasetTags,
		DBQueryDuration,
		DBQueryErrors,
		CorpusEncodeDuration,
		CorpusDocuments,
		RecommendDuration,
		RecommendRequests,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		CacheHits,
		CacheMisses,
		CacheEvictions,
		EmbedRequestDuration,
		EmbedBatchSize,
		EmbedErrors,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerTransitions,
		FeedbackReceived,
		AppInfo,
		AppUptime,
	}

	// Verify each metric can be described
	for _, m := range metrics {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

// Benchmark tests for metrics performance

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("SELECT", "movies", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/recommend", "200", 25*time.Millisecond)
	}
}

func BenchmarkRecordRecommendation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordRecommendation("lexical", "ok", 10*time.Millisecond)
	}
}
