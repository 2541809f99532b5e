// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package strategy

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// defaultDimensions is the hashing encoder vector width when the
// configured value is non-positive.
const defaultDimensions = 384

// HashingEmbedder is a deterministic local embedder built on the feature
// hashing trick. Each token is FNV-1a hashed into one of Dimensions()
// buckets with a sign taken from an independent second hash, term
// frequencies accumulate per bucket and the result is L2-normalized. The
// alternating sign keeps hash collisions from biasing bucket sums upward.
//
// It needs no model files or network access, which makes it the default
// semantic backend, and it is stable across runs so cached responses and
// tests stay reproducible. Vector quality is well below a trained model;
// point Endpoint at a real embedding server for production use.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder returns a hashing embedder with the given vector
// width.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = defaultDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Dimensions implements Embedder.
func (h *HashingEmbedder) Dimensions() int { return h.dims }

// Embed implements Embedder. It never fails except on context
// cancellation.
func (h *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		vecs[i] = h.embedOne(text)
	}
	return vecs, nil
}

func (h *HashingEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, h.dims)
	for _, token := range tokenize(strings.ToLower(text)) {
		bucket, sign := hashToken(token, h.dims)
		vec[bucket] += sign
	}
	normalizeVector(vec)
	return vec
}

// hashToken maps a token to a bucket index and a +1/-1 sign. The bucket
// comes from FNV-1a; the sign from the FNV-1 variant with a salt byte so
// the two hashes stay independent.
func hashToken(token string, dims int) (uint64, float32) {
	h1 := fnv.New64a()
	h1.Write([]byte(token))
	bucket := h1.Sum64() % uint64(dims)

	h2 := fnv.New64()
	h2.Write([]byte(token))
	h2.Write([]byte{0xff}) // Salt to differentiate
	if h2.Sum64()&1 != 0 {
		return bucket, -1
	}
	return bucket, 1
}

// normalizeVector scales v to unit L2 length in place. Zero vectors are
// left untouched.
func normalizeVector(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range v {
		v[i] /= norm
	}
}

// dotProduct returns the inner product of two equal-length vectors,
// accumulated in float64. Mismatched lengths score zero.
func dotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
