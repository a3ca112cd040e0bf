// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crosssell"

var (
	// Pipeline Metrics
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of pipeline runs",
		},
		[]string{"status"},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of complete pipeline runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
	)

	PipelineLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_last_success_timestamp",
			Help:      "Unix timestamp of the last successful pipeline run",
		},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of individual pipeline stages in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// Model Metrics
	MiningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mining_duration_seconds",
			Help:      "Duration of frequent itemset mining and rule generation in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	FrequentItemsets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frequent_itemsets",
			Help:      "Number of frequent itemsets in the served model",
		},
	)

	AssociationRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "association_rules",
			Help:      "Number of association rules in the served model",
		},
	)

	Transactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions",
			Help:      "Number of baskets mined for the served model",
		},
	)

	ALSTrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "als_training_duration_seconds",
			Help:      "Duration of ALS training in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	ALSSkippedPivots = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "als_skipped_pivots_total",
			Help:      "Total number of near-zero pivots skipped by the ALS linear solver",
		},
	)

	ALSMatrixSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "als_matrix_size",
			Help:      "Dimensions of the interaction matrix used for training",
		},
		[]string{"dimension"}, // "users", "items"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Current number of active API requests",
		},
	)

	// Query Cache Metrics
	QueryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_hits_total",
			Help:      "Total number of query cache hits",
		},
	)

	QueryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_misses_total",
			Help:      "Total number of query cache misses",
		},
	)

	QueryCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "query_cache_entries",
			Help:      "Current number of cached query responses",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "app_info",
			Help:      "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordPipelineRun records the outcome of a complete pipeline run.
func RecordPipelineRun(duration time.Duration, err error) {
	PipelineDuration.Observe(duration.Seconds())
	if err != nil {
		PipelineRuns.WithLabelValues("error").Inc()
		return
	}
	PipelineRuns.WithLabelValues("success").Inc()
	PipelineLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordMining records a mining pass and the size of its output.
func RecordMining(duration time.Duration, transactions, itemsets, rules int) {
	MiningDuration.Observe(duration.Seconds())
	Transactions.Set(float64(transactions))
	FrequentItemsets.Set(float64(itemsets))
	AssociationRules.Set(float64(rules))
}

// RecordTraining records an ALS training run.
func RecordTraining(duration time.Duration, users, items int, skippedPivots int64) {
	ALSTrainingDuration.Observe(duration.Seconds())
	ALSMatrixSize.WithLabelValues("users").Set(float64(users))
	ALSMatrixSize.WithLabelValues("items").Set(float64(items))
	if skippedPivots > 0 {
		ALSSkippedPivots.Add(float64(skippedPivots))
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup counts a query cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		QueryCacheHits.Inc()
	} else {
		QueryCacheMisses.Inc()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
