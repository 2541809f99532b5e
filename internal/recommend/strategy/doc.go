// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package strategy implements the pluggable similarity strategies behind
the recommendation engine.

A Strategy encodes the movie corpus once at startup and then scores
normalized query strings against every document. Two implementations are
provided:

  - TFIDF ("lexical"): sparse tf-idf vectors with English stop-word
    removal and word n-grams, scored through an inverted index. Behavior
    matches scikit-learn's TfidfVectorizer defaults (smooth idf, L2
    normalization, \b\w\w+\b tokens) so rankings line up with corpora
    vectorized offline by that library.

  - Semantic ("semantic"): dense embedding vectors scored by cosine
    similarity. Vectors come from an Embedder, either the local
    deterministic HashingEmbedder or a RemoteEmbedder speaking the
    Ollama /api/embed protocol with batching, rate limiting and a
    circuit breaker.

Both strategies are read-only after EncodeCorpus and safe for concurrent
Score calls. Similarity slices are index-aligned with the corpus passed
to EncodeCorpus; callers map indices back to movies.
*/
package strategy
