// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package main provides the Cinegraph HTTP server
//
// Cinegraph serves content-based movie recommendations over a MovieLens
// dataset.
//
// @title Cinegraph API
// @version 1.0
// @description Content-based movie recommendation and discovery API over MovieLens data
// @description
// @description ## Features
// @description
// @description - **Free-text recommendations**: TF-IDF lexical matching or dense semantic embeddings over movie tag and genre text
// @description - **Rating-aware ranking**: similarity selects candidates, mean user rating orders them
// @description - **Genre discovery**: most frequent genres and best-rated movies per genre
// @description - **Deterministic results**: identical queries always return identical rankings
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Rate limit headers are included in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Error Responses
// @description
// @description Errors are returned as a bare JSON object:
// @description ```json
// @description {"error": "Human-readable error message"}
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/cinegraph/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /
// @schemes http https
//
// @tag.name Core
// @tag.description Service identity, health checks and feedback
//
// @tag.name Discovery
// @tag.description Recommendation and genre discovery endpoints
package main
