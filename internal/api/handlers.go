// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/dataset"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/recommend"
)

// Handler serves the Cinegraph endpoints. All fields are set once at
// construction and read-only afterwards; handlers hold no per-request state
// and are safe for concurrent use.
type Handler struct {
	cfg       *config.Config
	ds        *dataset.Dataset
	engine    *recommend.Engine
	startTime time.Time
}

// NewHandler assembles the handler set around the loaded dataset and the
// encoded recommendation engine.
func NewHandler(cfg *config.Config, ds *dataset.Dataset, engine *recommend.Engine) *Handler {
	return &Handler{
		cfg:       cfg,
		ds:        ds,
		engine:    engine,
		startTime: time.Now(),
	}
}

// Root handles the identity endpoint.
//
// @Summary Service identity
// @Description Returns a liveness message and the active similarity strategy.
// @Tags Core
// @Produce json
// @Success 200 {object} api.RootResponse
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, RootResponse{
		Message: "Cinegraph API running!",
		Mode:    h.engine.StrategyName(),
	})
}

// TopGenres handles the genre index endpoint.
//
// @Summary Most frequent genres
// @Description Returns up to 10 genre names ordered by how many movies carry them.
// @Tags Discovery
// @Produce json
// @Success 200 {array} string
// @Router /top-genres [get]
func (h *Handler) TopGenres(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.ds.TopGenres())
}

// Recommend handles free-text recommendation queries.
//
// @Summary Recommend movies for a query
// @Description Ranks the movies whose tag and genre text is most similar to the query, best-rated first within the similarity-selected candidates. An empty query returns an empty list.
// @Tags Discovery
// @Produce json
// @Param query query string false "Free-text query"
// @Param n query int false "Result count" default(100)
// @Success 200 {array} recommend.RankedMovie
// @Router /recommend [get]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	n := intParam(r, "n", h.cfg.API.DefaultRecommendN)

	results, err := h.engine.Recommend(r.Context(), query, n)
	if err != nil {
		logging.CtxErr(r.Context(), err).Str("query", query).Msg("Recommendation failed")
		respondError(w, http.StatusInternalServerError, "Recommendation failed.")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// MoviesByGenre handles genre listing queries.
//
// @Summary Best-rated movies in a genre
// @Description Returns movies whose genre string contains the given genre, ordered by mean rating descending. Matching is case-insensitive via title-casing.
// @Tags Discovery
// @Produce json
// @Param genre query string false "Genre name"
// @Param limit query int false "Result count" default(50)
// @Success 200 {array} recommend.RankedMovie
// @Router /movies-by-genre [get]
func (h *Handler) MoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genre := r.URL.Query().Get("genre")
	limit := intParam(r, "limit", h.cfg.API.DefaultGenreLimit)

	matched := h.ds.MoviesByGenre(genre, limit)

	results := make([]recommend.RankedMovie, len(matched))
	for i, m := range matched {
		results[i] = recommend.RankedMovie{
			Rank:    i + 1,
			MovieID: m.ID,
			Title:   m.Title,
			Rating:  recommend.Round2(m.Rating),
		}
	}
	respondJSON(w, http.StatusOK, results)
}

// Feedback handles feedback submissions. Nothing is persisted or forwarded;
// the endpoint only validates that a message is present.
//
// @Summary Acknowledge feedback
// @Description Validates a feedback message. The submission is acknowledged but never stored.
// @Tags Core
// @Accept json
// @Produce json
// @Param body body api.FeedbackRequest true "Feedback"
// @Success 200 {object} api.FeedbackResponse
// @Failure 400 {object} api.FeedbackResponse
// @Router /feedback [post]
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordFeedback("invalid")
		respondJSON(w, http.StatusBadRequest, FeedbackResponse{OK: false, Error: "Invalid request body."})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		metrics.RecordFeedback("empty")
		respondJSON(w, http.StatusOK, FeedbackResponse{OK: false, Error: "Message is empty."})
		return
	}

	metrics.RecordFeedback("accepted")
	respondJSON(w, http.StatusOK, FeedbackResponse{OK: true})
}

// Healthz handles liveness checks.
//
// @Summary Liveness and dataset statistics
// @Tags Core
// @Produce json
// @Success 200 {object} api.HealthResponse
// @Router /healthz [get]
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	stats := h.ds.Stats()
	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Strategy:      h.engine.StrategyName(),
		Movies:        stats.Movies,
		Genres:        stats.DistinctGenres,
		UptimeSeconds: uptime,
	})
}

// intParam parses an integer query parameter, falling back to def when the
// parameter is absent, malformed or non-positive. Malformed input degrades
// to the default instead of erroring.
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
