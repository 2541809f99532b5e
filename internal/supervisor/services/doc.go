// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package services contains suture.Service adapters for long-running
// components. Cinegraph's only long-running component is the HTTP API
// server; everything else (dataset, encoded corpus) is immutable state
// built at startup.
package services
