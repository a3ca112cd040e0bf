// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

/*
Package middleware provides chi-compatible HTTP middleware for the serving API.

Key Components:

  - RequestID: X-Request-ID propagation with request and correlation ids
    in the logging context
  - AccessLog: one structured zerolog line per request
  - PrometheusMetrics: request count, latency and in-flight instrumentation
    labelled by chi route pattern
  - Compression: gzip for clients that accept it

Middleware Stack:

The API router applies them in this order:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

Endpoint labels use the route pattern ("/api/v1/recommendations/users/{userID}")
rather than the raw path so user and item ids never become label values.

Thread Safety:

All middleware is stateless per request except the pooled gzip writers.
*/
package middleware
