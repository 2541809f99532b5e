// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/dataset"
	"github.com/tomtom215/cinegraph/internal/recommend"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter builds a router around the loaded dataset and encoded engine.
func NewRouter(cfg *config.Config, ds *dataset.Dataset, engine *recommend.Engine) *Router {
	return &Router{
		handler:       NewHandler(cfg, ds, engine),
		chiMiddleware: NewChiMiddleware(&cfg.Security),
	}
}

// SetupChi configures all routes and returns the root handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route. CORS is global so OPTIONS
	// preflight is answered everywhere.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Data endpoints.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(PrometheusMetrics())
		r.Use(RequestLogging())

		r.Get("/", router.handler.Root)
		r.Get("/top-genres", router.handler.TopGenres)
		r.Get("/recommend", router.handler.Recommend)
		r.Get("/movies-by-genre", router.handler.MoviesByGenre)
		r.Post("/feedback", router.handler.Feedback)
	})

	// Health endpoint with permissive rate limiting for monitoring tools.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())

		r.Get("/healthz", router.handler.Healthz)
	})

	// Observability.
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
