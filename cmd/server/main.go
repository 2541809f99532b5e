// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package main is the entry point for the Cinegraph server.
//
// Cinegraph serves content-based movie recommendations over a MovieLens
// dataset. The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Dataset: MovieLens CSVs loaded through in-memory DuckDB
//  3. Strategy: lexical TF-IDF or semantic embeddings, per ENGINE_STRATEGY
//  4. Engine: one-time corpus encoding, optional BadgerDB response cache
//  5. HTTP server: Chi router under a suture supervisor tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (CINEGRAPH_ prefix, e.g. CINEGRAPH_HTTP_PORT)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// The dataset directory must contain movies.csv, ratings.csv and tags.csv;
// the server refuses to start when any is missing.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//
// # Example Usage
//
// Lexical mode over a local MovieLens download:
//
//	export CINEGRAPH_DATA_DIR=./ml-latest-small
//	./cinegraph
//
// Semantic mode with a remote Ollama-compatible embedding server:
//
//	export CINEGRAPH_DATA_DIR=./ml-latest-small
//	export CINEGRAPH_ENGINE_STRATEGY=semantic
//	export CINEGRAPH_SEMANTIC_ENDPOINT=http://localhost:11434
//	export CINEGRAPH_SEMANTIC_MODEL=nomic-embed-text
//	./cinegraph
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/cinegraph/docs" // Import generated swagger docs
	"github.com/tomtom215/cinegraph/internal/api"
	"github.com/tomtom215/cinegraph/internal/cache"
	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/dataset"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/recommend/strategy"
	"github.com/tomtom215/cinegraph/internal/supervisor"
	"github.com/tomtom215/cinegraph/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("strategy", cfg.Engine.Strategy).
		Str("data_dir", cfg.Data.Dir).
		Bool("cache_enabled", cfg.Engine.CacheEnabled).
		Msg("Starting Cinegraph")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the dataset. All three CSVs are required; a missing file is a
	// startup failure, not a degraded mode.
	loadStart := time.Now()
	ds, err := dataset.Load(ctx, &cfg.Data)
	if err != nil {
		if errors.Is(err, dataset.ErrMissingFile) {
			logging.Fatal().Err(err).Str("dir", cfg.Data.Dir).
				Msg("Dataset file missing - set CINEGRAPH_DATA_DIR to a MovieLens directory")
		}
		logging.Fatal().Err(err).Msg("Failed to load dataset")
	}
	logging.Info().
		Int("movies", ds.Len()).
		Dur("duration", time.Since(loadStart)).
		Msg("Dataset loaded")

	strat, err := buildStrategy(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build similarity strategy")
	}

	// Optional recommendation response cache (BadgerDB, in-memory).
	var resultCache recommend.ResultCache
	if cfg.Engine.CacheEnabled {
		c, err := cache.New("recommend", cfg.Engine.CacheTTL)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize response cache")
		}
		defer func() {
			if err := c.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing response cache")
			}
		}()
		resultCache = c
		logging.Info().Dur("ttl", cfg.Engine.CacheTTL).Msg("Response cache enabled")
	}

	engine := recommend.NewEngine(ds, strat, resultCache, cfg.API.DefaultRecommendN)

	// One-time corpus encoding. For the remote semantic embedder this is
	// the only phase that talks to the network.
	encodeStart := time.Now()
	if err := engine.EncodeCorpus(ctx); err != nil {
		logging.Fatal().Err(err).Str("strategy", strat.Name()).Msg("Failed to encode corpus")
	}
	logging.Info().
		Str("strategy", strat.Name()).
		Dur("duration", time.Since(encodeStart)).
		Msg("Corpus encoded")

	router := api.NewRouter(cfg, ds, engine)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// buildStrategy constructs the similarity strategy selected by the
// configuration. Semantic mode embeds locally with feature hashing unless
// a remote endpoint is configured.
func buildStrategy(cfg *config.Config) (strategy.Strategy, error) {
	switch cfg.Engine.Strategy {
	case "lexical":
		return strategy.NewTFIDF(cfg.Engine.TFIDF), nil

	case "semantic":
		var embedder strategy.Embedder
		if cfg.Engine.Semantic.Endpoint != "" {
			embedder = strategy.NewRemoteEmbedder(cfg.Engine.Semantic)
			logging.Info().
				Str("endpoint", cfg.Engine.Semantic.Endpoint).
				Str("model", cfg.Engine.Semantic.Model).
				Msg("Using remote embedding server")
		} else {
			embedder = strategy.NewHashingEmbedder(cfg.Engine.Semantic.Dimensions)
			logging.Info().
				Int("dimensions", cfg.Engine.Semantic.Dimensions).
				Msg("Using local feature-hashing embedder")
		}
		return strategy.NewSemantic(embedder), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Engine.Strategy)
	}
}
