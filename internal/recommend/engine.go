// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/dataset"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/recommend/strategy"
)

// fallbackDefaultN is used when the configured default result count is
// missing or non-positive.
const fallbackDefaultN = 100

// Catalog is the slice of the movie catalog the engine needs: corpus
// documents for encoding and per-position movie lookups for ranking.
// *dataset.Dataset satisfies it.
type Catalog interface {
	Len() int
	Movie(i int) dataset.Movie
	Docs() []string
}

// ResultCache stores serialized result lists keyed by request. A nil
// cache disables caching.
type ResultCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Engine turns free-text queries into ranked movie lists. It encodes the
// corpus once through the configured strategy, then serves queries by
// scoring, narrowing to the top candidates by similarity and re-ranking
// those by mean rating.
//
// Safe for concurrent use after EncodeCorpus.
type Engine struct {
	catalog  Catalog
	strat    strategy.Strategy
	cache    ResultCache
	defaultN int
	log      zerolog.Logger
}

// NewEngine assembles an engine. defaultN is the result count used when
// a request does not carry a usable n. cache may be nil.
func NewEngine(catalog Catalog, strat strategy.Strategy, cache ResultCache, defaultN int) *Engine {
	if defaultN < 1 {
		defaultN = fallbackDefaultN
	}
	return &Engine{
		catalog:  catalog,
		strat:    strat,
		cache:    cache,
		defaultN: defaultN,
		log:      logging.WithComponent("engine"),
	}
}

// StrategyName reports which strategy the engine was built with.
func (e *Engine) StrategyName() string {
	return e.strat.Name()
}

// EncodeCorpus runs the strategy's one-time corpus encoding over the
// catalog documents. Must complete before the first Recommend call.
func (e *Engine) EncodeCorpus(ctx context.Context) error {
	docs := e.catalog.Docs()

	start := time.Now()
	if err := e.strat.EncodeCorpus(ctx, docs); err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	duration := time.Since(start)

	metrics.RecordCorpusEncode(e.strat.Name(), duration, len(docs))
	e.log.Info().
		Str("strategy", e.strat.Name()).
		Int("documents", len(docs)).
		Dur("duration", duration).
		Msg("Corpus encoded")
	return nil
}

// Recommend returns the n best-rated movies among the corpus documents
// most similar to the query.
//
// The query is lower-cased and trimmed; an empty result of that
// normalization returns an empty list without touching the strategy.
// n < 1 falls back to the configured default. Results are cached per
// (strategy, query, n) when a cache is configured.
func (e *Engine) Recommend(ctx context.Context, query string, n int) ([]RankedMovie, error) {
	start := time.Now()

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		metrics.RecordRecommendation(e.strat.Name(), "empty_query", time.Since(start))
		return []RankedMovie{}, nil
	}
	if n < 1 {
		n = e.defaultN
	}

	key := cacheKey(e.strat.Name(), normalized, n)
	if e.cache != nil {
		if data, ok := e.cache.Get(key); ok {
			var cached []RankedMovie
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.RecordRecommendation(e.strat.Name(), "ok", time.Since(start))
				return cached, nil
			}
			// Corrupt entry, fall through and recompute.
			e.log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
		}
	}

	q, err := e.strat.EncodeQuery(ctx, normalized)
	if err != nil {
		metrics.RecordRecommendation(e.strat.Name(), "error", time.Since(start))
		return nil, fmt.Errorf("encode query: %w", err)
	}
	results := e.rank(e.strat.Score(q), n)

	if e.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := e.cache.Set(key, data); err != nil {
				e.log.Debug().Err(err).Str("key", key).Msg("Failed to store cache entry")
			}
		}
	}

	metrics.RecordRecommendation(e.strat.Name(), "ok", time.Since(start))
	return results, nil
}

// rank narrows the scored corpus to the top n candidates by similarity
// (corpus position breaks ties) and orders those by mean rating
// descending, similarity descending, then movieId ascending.
func (e *Engine) rank(sims []float64, n int) []RankedMovie {
	idx := make([]int, len(sims))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if sims[ia] != sims[ib] {
			return sims[ia] > sims[ib]
		}
		return ia < ib
	})
	if n > len(idx) {
		n = len(idx)
	}

	type candidate struct {
		movie dataset.Movie
		sim   float64
	}
	candidates := make([]candidate, n)
	for i, pos := range idx[:n] {
		candidates[i] = candidate{movie: e.catalog.Movie(pos), sim: sims[pos]}
	}
	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.movie.Rating != cb.movie.Rating {
			return ca.movie.Rating > cb.movie.Rating
		}
		if ca.sim != cb.sim {
			return ca.sim > cb.sim
		}
		return ca.movie.ID < cb.movie.ID
	})

	out := make([]RankedMovie, len(candidates))
	for i, c := range candidates {
		out[i] = RankedMovie{
			Rank:    i + 1,
			MovieID: c.movie.ID,
			Title:   c.movie.Title,
			Rating:  Round2(c.movie.Rating),
		}
	}
	return out
}

// cacheKey generates a cache key for a request.
func cacheKey(strategyName, query string, n int) string {
	return fmt.Sprintf("rec:%s:%d:%s", strategyName, n, query)
}
