// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package strategy

import (
	"context"
	"errors"
	"fmt"
)

// Ensure both strategies satisfy the Strategy interface
var (
	_ Strategy = (*TFIDF)(nil)
	_ Strategy = (*Semantic)(nil)
)

// semanticQuery is the encoded form of a semantic query: a unit-length
// embedding vector.
type semanticQuery struct {
	vector []float32
}

// Semantic scores documents by cosine similarity between dense embedding
// vectors produced by an Embedder. Corpus and query vectors are
// re-normalized to unit length on arrival, remote models do not always
// return unit vectors.
//
// EncodeCorpus must be called exactly once before queries are encoded;
// after that the corpus matrix is read-only and safe for concurrent use.
type Semantic struct {
	embedder Embedder
	corpus   [][]float32
	encoded  bool
}

// NewSemantic builds a semantic strategy around the given embedder.
func NewSemantic(embedder Embedder) *Semantic {
	return &Semantic{embedder: embedder}
}

// Name implements Strategy.
func (s *Semantic) Name() string { return "semantic" }

// EncodeCorpus embeds every corpus document and stores the normalized
// vectors. Document order defines the index space of Score results.
func (s *Semantic) EncodeCorpus(ctx context.Context, docs []string) error {
	if s.encoded {
		return errors.New("corpus already encoded")
	}
	vecs, err := s.embedder.Embed(ctx, docs)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}
	if len(vecs) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vecs), len(docs))
	}
	for _, v := range vecs {
		normalizeVector(v)
	}
	s.corpus = vecs
	s.encoded = true
	return nil
}

// EncodeQuery embeds and normalizes a single query.
func (s *Semantic) EncodeQuery(ctx context.Context, query string) (Query, error) {
	if !s.encoded {
		return nil, ErrCorpusNotEncoded
	}
	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vecs))
	}
	normalizeVector(vecs[0])
	return semanticQuery{vector: vecs[0]}, nil
}

// Score computes the cosine similarity of the query vector against every
// corpus document. Both sides are unit-length, so cosine reduces to a
// dot product. Zero query vectors score zero everywhere.
func (s *Semantic) Score(q Query) []float64 {
	sims := make([]float64, len(s.corpus))
	sq, ok := q.(semanticQuery)
	if !ok {
		return sims
	}
	for i, dv := range s.corpus {
		sims[i] = dotProduct(sq.vector, dv)
	}
	return sims
}
