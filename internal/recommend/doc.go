// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package recommend implements the query-to-ranked-movies engine.

The engine pairs a movie catalog with one similarity strategy from
recommend/strategy. At startup EncodeCorpus fits the strategy to the
catalog's corpus documents; at request time Recommend scores the query
against every document, keeps the n most similar movies and re-ranks
that candidate set by mean rating so well-regarded movies surface first.
Rating ties fall back to similarity, then to movieId for a deterministic
order.

Results are small value lists ready for JSON serialization. When a
ResultCache is configured, each (strategy, query, n) result list is
cached as serialized JSON with the cache's TTL policy deciding eviction.
*/
package recommend
