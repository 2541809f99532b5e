// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package supervisor manages the suture v4 service tree for Cinegraph.
//
// Cinegraph has a deliberately small tree: all state is built before the
// tree starts, so the only supervised service is the HTTP server. The tree
// still buys automatic restart with backoff if the server crashes, and a
// single place to drive graceful shutdown from.
//
// Supervisor events are logged through sutureslog, bridged onto the global
// zerolog logger by logging.NewSlogLogger.
package supervisor
