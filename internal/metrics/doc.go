// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

/*
Package metrics provides Prometheus instrumentation for the pipeline and the
serving API.

All collectors are registered with the default registry through promauto and
exposed by the API at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Pipeline Metrics:
  - crosssell_pipeline_runs_total: Pipeline runs (counter)
    Labels: status (success, error)
  - crosssell_pipeline_duration_seconds: End-to-end run time (histogram)
  - crosssell_pipeline_last_success_timestamp: Unix time of the last good run (gauge)
  - crosssell_pipeline_stage_duration_seconds: Per-stage time (histogram)
    Labels: stage (ingest, cleanse, mine, train, enrich, publish, warehouse)

Model Metrics:
  - crosssell_mining_duration_seconds: FP-growth time (histogram)
  - crosssell_frequent_itemsets: Itemsets in the served model (gauge)
  - crosssell_association_rules: Rules in the served model (gauge)
  - crosssell_transactions: Baskets mined (gauge)
  - crosssell_als_training_duration_seconds: ALS training time (histogram)
  - crosssell_als_skipped_pivots_total: Near-zero pivots skipped by the solver (counter)
  - crosssell_als_matrix_size: Interaction matrix dimensions (gauge)
    Labels: dimension (users, items)

API Metrics:
  - crosssell_api_requests_total: Requests (counter)
    Labels: method, endpoint, status_code
  - crosssell_api_request_duration_seconds: Latency (histogram)
    Labels: method, endpoint
  - crosssell_api_active_requests: In-flight requests (gauge)
  - crosssell_query_cache_hits_total, crosssell_query_cache_misses_total (counters)
  - crosssell_query_cache_entries: Cached responses (gauge)

System Metrics:
  - crosssell_app_info: Version and Go version (gauge, always 1)
*/
package metrics
