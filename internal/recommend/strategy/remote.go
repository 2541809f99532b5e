// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package strategy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// Ensure RemoteEmbedder implements Embedder
var _ Embedder = (*RemoteEmbedder)(nil)

const (
	// embedderBreakerName labels the embedder circuit breaker in metrics
	// and logs.
	embedderBreakerName = "remote-embedder"

	// defaultBatchSize bounds texts per request when unconfigured.
	defaultBatchSize = 64

	// defaultBreakerThreshold opens the breaker after this many
	// consecutive failures when unconfigured.
	defaultBreakerThreshold = 5

	// defaultBreakerTimeout is how long the breaker stays open before
	// letting a probe request through.
	defaultBreakerTimeout = 30 * time.Second

	// maxErrorBodyBytes caps how much of an error response body is read
	// for the error message.
	maxErrorBodyBytes = 512
)

// embedRequest is the Ollama-compatible embedding request body.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is the Ollama-compatible embedding response body.
type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// RemoteEmbedder embeds texts via an Ollama-compatible HTTP server
// (POST {endpoint}/api/embed). Requests are batched, paced by a rate
// limiter and guarded by a circuit breaker so a failing embedding server
// degrades to fast errors instead of piling up blocked requests.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker)
// for its timeout calculations. This is intentional for production
// resilience.
type RemoteEmbedder struct {
	endpoint  string
	model     string
	dims      int
	batchSize int
	client    *http.Client
	limiter   *rate.Limiter
	cb        *gobreaker.CircuitBreaker[[][]float32]
	log       zerolog.Logger
}

// NewRemoteEmbedder builds a remote embedder from semantic strategy
// configuration. Endpoint and Model must be set; everything else falls
// back to conservative defaults.
func NewRemoteEmbedder(cfg config.SemanticConfig) *RemoteEmbedder {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = defaultBreakerThreshold
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = defaultBreakerTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	log := logging.WithComponent("embedder")

	metrics.SetBreakerState(embedderBreakerName, stateToFloat(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        embedderBreakerName,
		MaxRequests: 1, // single probe request in half-open state
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			log.Warn().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] Embedder state transition")
			metrics.RecordBreakerTransition(name, fromStr, toStr)
			metrics.SetBreakerState(name, stateToFloat(to))
		},
	})

	return &RemoteEmbedder{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		model:     cfg.Model,
		dims:      cfg.Dimensions,
		batchSize: batchSize,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
		cb:        cb,
		log:       log,
	}
}

// Dimensions implements Embedder. It reports the configured vector
// width; responses with a different width are rejected.
func (r *RemoteEmbedder) Dimensions() int { return r.dims }

// Embed implements Embedder. Texts are sent in batches of at most the
// configured batch size and the resulting vectors are returned in input
// order. The first failed batch aborts the whole call.
func (r *RemoteEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += r.batchSize {
		end := min(start+r.batchSize, len(texts))
		vecs, err := r.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("embed response count mismatch: got %d vectors for %d texts", len(vecs), end-start)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// embedBatch sends one batch through the rate limiter and circuit
// breaker, recording request metrics either way.
func (r *RemoteEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	vecs, err := r.cb.Execute(func() ([][]float32, error) {
		return r.post(ctx, batch)
	})
	metrics.RecordEmbedRequest(time.Since(start), len(batch), err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(embedderBreakerName, "rejected").Inc()
			return nil, fmt.Errorf("embedding server unavailable: %w", err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(embedderBreakerName, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(embedderBreakerName, "success").Inc()
	return vecs, nil
}

// post performs a single /api/embed request and validates the response
// shape against the configured dimensions.
func (r *RemoteEmbedder) post(ctx context.Context, batch []string) ([][]float32, error) {
	payload, err := json.Marshal(embedRequest{Model: r.model, Input: batch})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/api/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("embed endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(decoded.Embeddings) == 0 {
		return nil, errors.New("embed response contained no embeddings")
	}
	for i, vec := range decoded.Embeddings {
		if len(vec) != r.dims {
			return nil, fmt.Errorf("embedding %d has %d dimensions, configured %d", i, len(vec), r.dims)
		}
	}
	return decoded.Embeddings, nil
}

// stateToFloat converts circuit breaker state to a gauge value
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
