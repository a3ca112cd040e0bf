// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

/*
Package api provides the HTTP serving layer for the trained models.

Routes are registered on a chi router (see NewRouter). Every response uses
the models.APIResponse envelope with status, data, metadata and, on failure,
a machine readable error code.

Endpoints (all under /api/v1):

  - GET  /health/live                                 process liveness
  - GET  /health/ready                                503 until a model is served
  - GET  /recommendations/users/{userID}?k=           ALS top-K for a user
  - GET  /recommendations/items/{itemID}/similar?k=   cosine-similar items
  - GET  /recommendations/items/{itemID}/rules?k=     cross-sell rules
  - GET  /itemsets?min_size=                          frequent itemsets
  - GET  /products, GET /products/{productID}         catalog reads
  - POST /products                                    validated catalog upsert
  - POST /pipeline/run?wait=                          trigger a pipeline run
  - GET  /pipeline/status                             runner status

Prometheus metrics are exposed at /metrics outside the versioned prefix.

Cold start: unknown users and items return 200 with an empty list once a
model exists. Before the first run, user and rule queries fall back to the
DuckDB warehouse when one is configured, otherwise they return 503
MODEL_NOT_READY.

Query results are cached in an LRU keyed by model version and request;
the cache is cleared whenever a new model is published.
*/
package api
