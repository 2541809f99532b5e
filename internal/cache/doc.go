// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package cache provides the in-memory TTL response cache used by the
// recommendation engine. Values are opaque byte slices; serialization is
// the caller's concern.
package cache
