// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package api provides the HTTP surface of Cinegraph using the Chi router.
//
// The API is a thin layer over immutable startup state: the loaded dataset
// and the encoded recommendation engine are injected into the handlers at
// construction and never mutated afterwards, so every request is an
// independent pure computation and no handler takes a lock.
//
// Endpoints return bare JSON values (arrays for ranked lists, small objects
// elsewhere) rather than an envelope, matching the public read-only contract:
//
//	GET  /                 identity and active strategy
//	GET  /top-genres       the ten most frequent genre names
//	GET  /recommend        ranked movies for a free-text query
//	GET  /movies-by-genre  best-rated movies carrying a genre
//	POST /feedback         validation-only acknowledgment
//	GET  /healthz          liveness with dataset statistics
//	GET  /metrics          Prometheus metrics
//	GET  /swagger/*        interactive API documentation
package api
