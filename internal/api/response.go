// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/logging"
)

// respondJSON writes v as a JSON response body with the given status code.
// The public endpoints return bare values (arrays, small objects) rather
// than a response envelope.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; all we can do is log.
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes a minimal JSON error object. Used for the few paths
// that fail outright (undecodable bodies, internal errors); malformed query
// parameters degrade to defaults instead of reaching here.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
