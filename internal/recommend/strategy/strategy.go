// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package strategy

import "context"

// Query is a strategy-specific encoded query. Callers treat it as opaque:
// the value returned by EncodeQuery is only ever handed back to Score on
// the same strategy instance.
type Query any

// Strategy encodes a document corpus once and scores queries against it.
//
// The lifecycle is strict: EncodeCorpus is called exactly once at startup,
// before any EncodeQuery or Score call. After corpus encoding a strategy is
// read-only and safe for concurrent use.
type Strategy interface {
	// Name identifies the strategy ("lexical" or "semantic") in API
	// responses, logs and metrics.
	Name() string

	// EncodeCorpus builds the internal representation of the corpus.
	// The document order defines the index space of Score results.
	EncodeCorpus(ctx context.Context, docs []string) error

	// EncodeQuery encodes a single query string. The query has already
	// been lower-cased and trimmed by the engine.
	EncodeQuery(ctx context.Context, query string) (Query, error)

	// Score returns one similarity per corpus document, index-aligned
	// with the docs passed to EncodeCorpus.
	Score(q Query) []float64
}

// Embedder turns texts into fixed-length dense vectors. Implementations
// must return one vector per input text, all of Dimensions() length.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}
