// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

/*
Package database loads the gold serving tables into an optional DuckDB
warehouse so they can be queried with SQL alongside the JSON lakehouse.

Tables:
  - assoc_rules: association rules, lhs/rhs as VARCHAR[] for list_contains
  - item_similarity: per-item nearest neighbours from the item factors
  - user_recommendations: per-user top-K products
  - model_runs: one row per published pipeline run

Every table carries a rank column holding the row's position in the gold
table, so ordered reads return exactly the order the pipeline produced.
Each pipeline run replaces all gold tables in one transaction.
*/
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/crosssell/internal/config"
	"github.com/tomtom215/crosssell/internal/logging"
)

// DB wraps the DuckDB connection.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the warehouse and creates its schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	path := cfg.Path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	} else {
		path = ""
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	db.configureConnectionPool()

	if err := db.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Debug().Str("path", cfg.Path).Int("threads", numThreads).Msg("Warehouse opened")
	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Conn returns the underlying SQL connection for ad-hoc queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS assoc_rules (
			rank INTEGER NOT NULL,
			lhs VARCHAR[] NOT NULL,
			rhs VARCHAR[] NOT NULL,
			support DOUBLE NOT NULL,
			confidence DOUBLE NOT NULL,
			lift DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS item_similarity (
			rank INTEGER NOT NULL,
			product_id VARCHAR NOT NULL,
			similar_product_id VARCHAR NOT NULL,
			score DOUBLE NOT NULL,
			product_name VARCHAR,
			similar_product_name VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS user_recommendations (
			rank INTEGER NOT NULL,
			user_id VARCHAR NOT NULL,
			product_id VARCHAR NOT NULL,
			score DOUBLE NOT NULL,
			product_name VARCHAR,
			user_segment VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS model_runs (
			run_id VARCHAR PRIMARY KEY,
			completed_at TIMESTAMP NOT NULL,
			transactions BIGINT NOT NULL,
			rules BIGINT NOT NULL,
			similar_rows BIGINT NOT NULL,
			recommendation_rows BIGINT NOT NULL
		)`,
	}
	for _, q := range queries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// closeQuietly closes a resource, ignoring errors.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
