// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// RateLimitConfig defines rate limit parameters for a group of endpoints.
type RateLimitConfig struct {
	// Requests is the number of requests allowed in the window.
	Requests int
	// Window is the time window for rate limiting.
	Window time.Duration
}

// Endpoint-group rate limit presets. The data endpoints share the default
// API preset; health checks get a permissive one so monitoring tools can
// poll freely without being able to abuse the endpoint.
var (
	// RateLimitAPI is the default limit for the data endpoints.
	RateLimitAPI = RateLimitConfig{Requests: 100, Window: time.Minute}

	// RateLimitHealth is permissive rate limiting for health endpoints.
	RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}
)

// ChiMiddleware provides Chi-compatible middleware factories built from the
// security configuration: CORS via go-chi/cors and per-group rate limiting
// via go-chi/httprate.
type ChiMiddleware struct {
	cors             func(http.Handler) http.Handler
	rateLimitReqs    int
	rateLimitWindow  time.Duration
	rateLimitDisable bool
}

// NewChiMiddleware builds the middleware factory from the security config.
// An empty origin list falls back to allow-all, matching the public
// read-only nature of the API.
func NewChiMiddleware(cfg *config.SecurityConfig) *ChiMiddleware {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	reqs := cfg.RateLimitReqs
	if reqs <= 0 {
		reqs = RateLimitAPI.Requests
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = RateLimitAPI.Window
	}

	return &ChiMiddleware{
		cors:             corsHandler,
		rateLimitReqs:    reqs,
		rateLimitWindow:  window,
		rateLimitDisable: cfg.RateLimitDisabled,
	}
}

// CORS returns the CORS middleware. It must be installed globally so
// OPTIONS preflight requests are handled on every route.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the default IP-keyed rate limiter for data endpoints.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.rateLimitDisable {
		return passthrough
	}
	return httprate.LimitByIP(m.rateLimitReqs, m.rateLimitWindow)
}

// RateLimitCustom returns an IP-keyed rate limiter with preset parameters.
func (m *ChiMiddleware) RateLimitCustom(preset RateLimitConfig) func(http.Handler) http.Handler {
	if m.rateLimitDisable {
		return passthrough
	}
	return httprate.LimitByIP(preset.Requests, preset.Window)
}

// RateLimitHealth returns the permissive limiter for health endpoints.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitHealth)
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// RequestIDWithLogging assigns each request an ID, echoes it in the
// X-Request-ID response header and threads it through the logging context
// so every log line of the request carries the same ID. An ID supplied by
// an upstream proxy is kept.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APISecurityHeaders adds defensive headers to API responses.
//
// Content-Security-Policy is deliberately omitted: it applies to HTML and
// every endpoint here serves JSON.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PrometheusMetrics instruments every request with the API counter,
// duration histogram and active-request gauge.
func PrometheusMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.TrackActiveRequest(true)
			defer metrics.TrackActiveRequest(false)

			start := time.Now()
			wrapper := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			metrics.RecordAPIRequest(
				r.Method,
				r.URL.Path,
				strconv.Itoa(wrapper.statusCode),
				time.Since(start),
			)
		})
	}
}

// RequestLogging logs one line per completed request at debug level.
func RequestLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			logging.Ctx(r.Context()).Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapper.statusCode).
				Dur("duration", time.Since(start)).
				Msg("Request completed")
		})
	}
}

// statusResponseWriter wraps http.ResponseWriter to capture the status code.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code and calls the underlying WriteHeader.
func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
