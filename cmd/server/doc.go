// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

/*
Package main is the crosssell server: it runs the basket analytics
pipeline on a schedule and serves association rules, similar items and
per-user recommendations over HTTP.

# Application Architecture

	RootSupervisor ("crosssell")
	├── DataSupervisor ("data-layer")
	│   └── PipelineService (startup run + PIPELINE_INTERVAL ticker)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog with JSON/console output modes
 3. Catalog: BadgerDB product store
 4. Warehouse: DuckDB gold tables (optional, DUCKDB_ENABLED)
 5. Pipeline runner, API handler and chi router
 6. Supervisor tree and signal handling

# Configuration

	# Inputs
	ORDERS_SOURCE=data/orders.csv        # required
	PRODUCTS_SOURCE=data/products.csv    # optional, catalog used otherwise
	CUSTOMERS_SOURCE=data/customers.csv  # optional
	LAKEHOUSE_ROOT=data/lakehouse

	# Model
	MIN_SUPPORT=0.01
	MIN_CONFIDENCE=0.1
	MIN_LIFT=1.0
	TOP_K=10
	ALS_FACTORS=10
	ALS_ITERATIONS=10

	# Server
	HTTP_PORT=8080
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10s, a running pipeline pass is canceled, then the warehouse and the
catalog are closed.
*/
package main
