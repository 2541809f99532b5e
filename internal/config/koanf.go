// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are checked in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinegraph/config.yaml",
	"/etc/cinegraph/config.yml",
}

// envPrefix namespaces all Cinegraph environment variables.
const envPrefix = "CINEGRAPH_"

// envMappings translates environment variable names (sans prefix, lowercased)
// to koanf config paths. Variables absent from this table are ignored, which
// keeps unrelated CINEGRAPH_* variables from clobbering nested keys.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",

	"data_dir":          "data.dir",
	"data_movies_file":  "data.movies_file",
	"data_ratings_file": "data.ratings_file",
	"data_tags_file":    "data.tags_file",
	"data_max_memory":   "data.max_memory",
	"data_threads":      "data.threads",

	"engine_strategy":      "engine.strategy",
	"engine_cache_enabled": "engine.cache_enabled",
	"engine_cache_ttl":     "engine.cache_ttl",

	"tfidf_max_features": "engine.tfidf.max_features",
	"tfidf_ngram_min":    "engine.tfidf.ngram_min",
	"tfidf_ngram_max":    "engine.tfidf.ngram_max",

	"semantic_dimensions":          "engine.semantic.dimensions",
	"semantic_endpoint":            "engine.semantic.endpoint",
	"semantic_model":               "engine.semantic.model",
	"semantic_batch_size":          "engine.semantic.batch_size",
	"semantic_timeout":             "engine.semantic.timeout",
	"semantic_requests_per_second": "engine.semantic.requests_per_second",
	"semantic_breaker_threshold":   "engine.semantic.breaker_threshold",
	"semantic_breaker_timeout":     "engine.semantic.breaker_timeout",

	"api_default_recommend_n": "api.default_recommend_n",
	"api_default_genre_limit": "api.default_genre_limit",

	"cors_origins":        "security.cors_origins",
	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"rate_limit_disabled": "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// sliceConfigPaths lists config paths whose env values are comma-separated
// lists rather than scalars.
var sliceConfigPaths = map[string]bool{
	"security.cors_origins": true,
}

// DefaultConfig returns the built-in defaults used as the base layer.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		Data: DataConfig{
			Dir:         "data",
			MoviesFile:  "movies.csv",
			RatingsFile: "ratings.csv",
			TagsFile:    "tags.csv",
			MaxMemory:   "2GB",
			Threads:     0,
		},
		Engine: EngineConfig{
			Strategy:     "lexical",
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
			TFIDF: TFIDFConfig{
				MaxFeatures: 50000,
				NGramMin:    1,
				NGramMax:    2,
			},
			Semantic: SemanticConfig{
				Dimensions:        384,
				Endpoint:          "",
				Model:             "nomic-embed-text",
				BatchSize:         64,
				Timeout:           30 * time.Second,
				RequestsPerSecond: 0,
				BreakerThreshold:  5,
				BreakerTimeout:    30 * time.Second,
			},
		},
		API: APIConfig{
			DefaultRecommendN: 100,
			DefaultGenreLimit: 50,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads the configuration in three layers with increasing
// precedence:
//
//  1. built-in defaults
//  2. YAML config file (CONFIG_PATH or the first existing DefaultConfigPaths entry)
//  3. CINEGRAPH_* environment variables (see envMappings)
//
// The merged result is validated before being returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults.
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	// Layer 2: optional YAML file.
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables.
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	processSliceFields(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// findConfigFile returns the config file to load, or "" when none exists.
// CONFIG_PATH takes precedence; a set-but-missing CONFIG_PATH is ignored so
// containers can mount the file optionally.
func findConfigFile() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps CINEGRAPH_* variable names to config paths. Returning
// "" drops the variable.
func envTransformFunc(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if path, ok := envMappings[name]; ok {
		return path
	}
	return ""
}

// processSliceFields re-splits comma-separated env values for slice-typed
// config paths. Koanf's env provider stores them as plain strings.
func processSliceFields(k *koanf.Koanf) {
	for path := range sliceConfigPaths {
		raw := k.Get(path)
		s, ok := raw.(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		_ = k.Set(path, values)
	}
}
