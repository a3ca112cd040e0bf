// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Package config loads the application configuration from struct defaults,
// an optional YAML file and environment variables, in that order of
// precedence (later wins).
//
// # Sections
//
//   - model: mining thresholds, ALS hyperparameters, top-K
//   - sources: CSV inputs (orders required; products and customers optional)
//   - lakehouse: root of the bronze/silver/gold directory layout
//   - database: optional DuckDB warehouse for gold tables
//   - catalog: badger product catalog
//   - server: HTTP listener, CORS, rate limiting, query cache
//   - pipeline: scheduling of pipeline runs in the server
//   - logging: level, format, caller
//
// # Environment
//
// Only variables listed in the mapping table are read, e.g. MIN_SUPPORT,
// ALS_FACTORS, ORDERS_SOURCE, LAKEHOUSE_ROOT, HTTP_PORT, LOG_LEVEL.
// CONFIG_PATH selects the YAML file.
package config

import (
	"time"

	"github.com/tomtom215/crosssell/internal/recommend"
)

// Config is the complete application configuration.
type Config struct {
	Model     ModelConfig     `koanf:"model"`
	Sources   SourcesConfig   `koanf:"sources"`
	Lakehouse LakehouseConfig `koanf:"lakehouse"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Server    ServerConfig    `koanf:"server"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ModelConfig holds the hyperparameters of both modeling branches.
type ModelConfig struct {
	MinSupport        float64 `koanf:"min_support" validate:"gt=0,lte=1"`
	MinConfidence     float64 `koanf:"min_confidence" validate:"gte=0,lte=1"`
	MinLift           float64 `koanf:"min_lift" validate:"gte=0"`
	TopK              int     `koanf:"top_k" validate:"gte=1,lte=1000"`
	ALSFactors        int     `koanf:"als_factors" validate:"gte=1,lte=256"`
	ALSRegularization float64 `koanf:"als_regularization" validate:"gte=0"`
	ALSIterations     int     `koanf:"als_iterations" validate:"gte=0,lte=1000"`
	ALSWorkers        int     `koanf:"als_workers" validate:"gte=0"`
	Seed              int64   `koanf:"seed"`
}

// Mining returns the association mining thresholds.
func (m ModelConfig) Mining() recommend.MiningConfig {
	return recommend.MiningConfig{
		MinSupport:    m.MinSupport,
		MinConfidence: m.MinConfidence,
		MinLift:       m.MinLift,
	}
}

// ALS returns the ALS hyperparameters.
func (m ModelConfig) ALS() recommend.ALSConfig {
	return recommend.ALSConfig{
		Factors:        m.ALSFactors,
		Regularization: m.ALSRegularization,
		Iterations:     m.ALSIterations,
		NumWorkers:     m.ALSWorkers,
		Seed:           m.Seed,
	}
}

// SourcesConfig names the CSV inputs of a pipeline run.
type SourcesConfig struct {
	Orders    string `koanf:"orders" validate:"required"`
	Products  string `koanf:"products"`
	Customers string `koanf:"customers"`
}

// LakehouseConfig locates the bronze/silver/gold layout.
type LakehouseConfig struct {
	Root string `koanf:"root" validate:"required"`
}

// DatabaseConfig configures the optional DuckDB warehouse.
type DatabaseConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"`
}

// CatalogConfig configures the badger product catalog.
type CatalogConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// SeedFromSource imports the products CSV into the catalog after each
	// pipeline run.
	SeedFromSource bool `koanf:"seed_from_source"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CacheSize         int           `koanf:"cache_size" validate:"gte=0"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
}

// PipelineConfig schedules pipeline runs inside the server.
type PipelineConfig struct {
	RunOnStartup bool `koanf:"run_on_startup"`

	// Interval between scheduled runs; zero disables the schedule.
	Interval time.Duration `koanf:"interval"`

	// Timeout bounds a single run.
	Timeout time.Duration `koanf:"timeout"`

	// EvaluationK is the cutoff used by the holdout evaluation report.
	EvaluationK int `koanf:"evaluation_k" validate:"gte=1"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Default returns the built-in defaults without reading the file or the
// environment. Orders is empty, so the result does not validate as is.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns the built-in defaults, the first koanf layer.
func defaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			MinSupport:        0.1,
			MinConfidence:     0.3,
			MinLift:           1.0,
			TopK:              5,
			ALSFactors:        8,
			ALSRegularization: 0.1,
			ALSIterations:     10,
			ALSWorkers:        0, // 0 = GOMAXPROCS
			Seed:              42,
		},
		Sources: SourcesConfig{
			Orders: "data/orders.csv",
		},
		Lakehouse: LakehouseConfig{
			Root: "data/lakehouse",
		},
		Database: DatabaseConfig{
			Enabled:   false,
			Path:      "data/crosssell.duckdb",
			MaxMemory: "1GB",
		},
		Catalog: CatalogConfig{
			Path:           "data/catalog",
			SeedFromSource: true,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CacheSize:       1000,
			CacheTTL:        5 * time.Minute,
		},
		Pipeline: PipelineConfig{
			RunOnStartup: true,
			Interval:     24 * time.Hour,
			Timeout:      30 * time.Minute,
			EvaluationK:  5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
