// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package config loads and validates Cinegraph configuration.
//
// Configuration is layered with clear precedence: built-in defaults, then an
// optional YAML file, then environment variables. See LoadWithKoanf for the
// loading pipeline and the supported environment variable names.
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/tomtom215/cinegraph/internal/validation"
)

// Config is the root configuration for the Cinegraph server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Data     DataConfig     `koanf:"data"`
	Engine   EngineConfig   `koanf:"engine"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// DataConfig holds the dataset file locations and loader tuning.
//
// The three CSV files follow the MovieLens schema:
//   - movies.csv:  movieId,title,genres
//   - ratings.csv: userId,movieId,rating,timestamp
//   - tags.csv:    userId,movieId,tag,timestamp
//
// All three are required; the process refuses to start when any is missing.
type DataConfig struct {
	// Dir is the directory containing the dataset files.
	Dir string `koanf:"dir" validate:"required"`

	// MoviesFile, RatingsFile and TagsFile override the default file names.
	// Relative names are resolved against Dir; absolute paths are used as-is.
	MoviesFile  string `koanf:"movies_file"`
	RatingsFile string `koanf:"ratings_file"`
	TagsFile    string `koanf:"tags_file"`

	// MaxMemory caps the in-memory DuckDB instance used during loading.
	MaxMemory string `koanf:"max_memory"`

	// Threads is the number of DuckDB threads (0 = use NumCPU).
	Threads int `koanf:"threads"`
}

// MoviesPath returns the resolved path of the movies CSV.
func (d DataConfig) MoviesPath() string { return d.resolve(d.MoviesFile) }

// RatingsPath returns the resolved path of the ratings CSV.
func (d DataConfig) RatingsPath() string { return d.resolve(d.RatingsFile) }

// TagsPath returns the resolved path of the tags CSV.
func (d DataConfig) TagsPath() string { return d.resolve(d.TagsFile) }

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// EngineConfig holds recommendation engine settings.
type EngineConfig struct {
	// Strategy selects the similarity strategy: "lexical" (TF-IDF) or
	// "semantic" (dense embeddings).
	Strategy string `koanf:"strategy" validate:"oneof=lexical semantic"`

	// CacheEnabled turns the in-memory recommendation response cache on.
	CacheEnabled bool `koanf:"cache_enabled"`

	// CacheTTL is how long cached recommendation responses stay valid.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Strategy-specific configuration.
	TFIDF    TFIDFConfig    `koanf:"tfidf"`
	Semantic SemanticConfig `koanf:"semantic"`
}

// TFIDFConfig holds lexical strategy settings.
type TFIDFConfig struct {
	// MaxFeatures caps the vocabulary size, keeping the terms with the
	// highest corpus frequency.
	MaxFeatures int `koanf:"max_features" validate:"gte=1"`

	// NGramMin and NGramMax bound the word n-gram sizes included in the
	// vocabulary.
	NGramMin int `koanf:"ngram_min" validate:"gte=1"`
	NGramMax int `koanf:"ngram_max" validate:"gte=1"`
}

// SemanticConfig holds semantic strategy settings.
//
// When Endpoint is empty a deterministic local feature-hashing encoder is
// used; otherwise corpus and query texts are embedded by the remote
// Ollama-compatible embedding server at Endpoint.
type SemanticConfig struct {
	// Dimensions is the embedding vector width. It sizes the local
	// hashing encoder and validates remote embedding responses.
	Dimensions int `koanf:"dimensions" validate:"gte=8"`

	// Endpoint is the base URL of a remote embedding server (optional).
	Endpoint string `koanf:"endpoint" validate:"omitempty,url"`

	// Model is the embedding model name requested from the remote server.
	Model string `koanf:"model"`

	// BatchSize is the number of corpus documents embedded per request.
	BatchSize int `koanf:"batch_size" validate:"gte=1"`

	// Timeout bounds each embedding request.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond paces calls to the remote server during the
	// one-time corpus encoding (0 = unlimited).
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// BreakerThreshold is the number of consecutive failures before the
	// circuit breaker opens.
	BreakerThreshold uint32 `koanf:"breaker_threshold"`

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// APIConfig holds API response defaults.
type APIConfig struct {
	// DefaultRecommendN is the result count for /recommend when the n
	// query parameter is absent or malformed.
	DefaultRecommendN int `koanf:"default_recommend_n" validate:"gte=1"`

	// DefaultGenreLimit is the result count for /movies-by-genre when the
	// limit query parameter is absent or malformed.
	DefaultGenreLimit int `koanf:"default_genre_limit" validate:"gte=1"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	// CORSOrigins lists allowed origins. Defaults to allow-all, matching
	// the public read-only nature of the API.
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Engine.TFIDF.NGramMin > c.Engine.TFIDF.NGramMax {
		return fmt.Errorf("engine.tfidf: ngram_min (%d) must not exceed ngram_max (%d)",
			c.Engine.TFIDF.NGramMin, c.Engine.TFIDF.NGramMax)
	}

	if c.Engine.Strategy == "semantic" && c.Engine.Semantic.Endpoint != "" && c.Engine.Semantic.Model == "" {
		return fmt.Errorf("engine.semantic: model is required when endpoint is set")
	}

	return nil
}
