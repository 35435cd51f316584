// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Backing store performance (PostgreSQL, Badger, DuckDB)
// - Reconciliation scenario outcomes
// - API endpoint latency and throughput
// - ETL orchestration runs
// - Circuit breaker state
// - NATS event processing

var (
	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of backing store calls in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"store", "operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of backing store call errors",
		},
		[]string{"store", "operation"},
	)

	// Reconciliation Metrics
	ReconcileScenarios = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_scenarios_total",
			Help: "Total number of reconciliations by outcome",
		},
		[]string{"scenario"}, // "merged", "partial", "fallback", "not_found"
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconcile_duration_seconds",
			Help:    "Duration of single-product reconciliations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	ReconcileSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_source_failures_total",
			Help: "Total number of swallowed per-source fetch failures during reconciliation",
		},
		[]string{"source"}, // "core", "details"
	)

	NormalizerDecodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "normalizer_decode_failures_total",
			Help: "Total number of store results that failed structured decoding",
		},
	)

	// Catalog Listing Metrics
	CatalogListItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_list_items_total",
			Help: "Total number of listing items served, by origin store",
		},
		[]string{"source"}, // "core", "details"
	)

	CatalogListSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_list_source_failures_total",
			Help: "Total number of listing source failures tolerated by concatenation",
		},
		[]string{"source"},
	)

	// Interaction Metrics
	InteractionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of interaction events written",
		},
	)

	InteractionRecordFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_record_failures_total",
			Help: "Total number of failed interaction writes",
		},
	)

	InteractionRecordDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "interaction_record_duration_seconds",
			Help:    "Duration of interaction writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ETL Orchestration Metrics
	ETLRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etl_runs_total",
			Help: "Total number of aggregation merge runs by result",
		},
		[]string{"result"}, // "success", "empty", "failed", "throttled"
	)

	ETLDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "etl_duration_seconds",
			Help:    "Duration of aggregation merge runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	ETLProductsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_products_processed_total",
			Help: "Total number of product aggregates merged into the ranking store",
		},
	)

	ETLBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "etl_batch_size",
			Help:    "Number of product aggregates per merge run",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	ETLLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "etl_last_success_timestamp",
			Help: "Unix timestamp of last successful aggregation merge",
		},
	)

	// Ranking Metrics
	RankingQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_queries_total",
			Help: "Total number of top-N ranking queries",
		},
	)

	RankingRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_rows_skipped_total",
			Help: "Total number of ranking rows dropped for lack of a core record",
		},
	)

	RankingQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_query_duration_seconds",
			Help:    "Duration of top-N resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// NATS Event Processing Metrics
	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of messages published to NATS",
		},
	)

	NATSMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_consumed_total",
			Help: "Total number of messages consumed from NATS",
		},
	)

	NATSMessagesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_processed_total",
			Help: "Total number of messages successfully processed",
		},
	)

	NATSMessagesParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_parse_failed_total",
			Help: "Total number of messages that failed to parse",
		},
	)

	NATSProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nats_processing_duration_seconds",
			Help:    "Duration of NATS message processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	NATSAggregationTriggers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_aggregation_triggers_total",
			Help: "Total number of aggregation runs triggered by the interaction consumer",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordStoreQuery records a backing store call metric
func RecordStoreQuery(store, operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(store, operation).Inc()
	}
}

// RecordReconcileScenario records the outcome of a single-product
// reconciliation
func RecordReconcileScenario(scenario string, duration time.Duration) {
	ReconcileScenarios.WithLabelValues(scenario).Inc()
	ReconcileDuration.Observe(duration.Seconds())
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

// RecordETLRun records an aggregation merge run. Result is one of
// "success", "empty", "failed", "throttled".
func RecordETLRun(result string, duration time.Duration, processed int) {
	ETLRuns.WithLabelValues(result).Inc()
	ETLDuration.Observe(duration.Seconds())
	if result == "success" {
		ETLProductsProcessed.Add(float64(processed))
		ETLBatchSize.Observe(float64(processed))
		ETLLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordRankingQuery records a top-N resolution and how many rows were
// dropped for lack of a core record
func RecordRankingQuery(duration time.Duration, skipped int) {
	RankingQueries.Inc()
	RankingQueryDuration.Observe(duration.Seconds())
	if skipped > 0 {
		RankingRowsSkipped.Add(float64(skipped))
	}
}

// RecordInteraction records an interaction write attempt
func RecordInteraction(duration time.Duration, err error) {
	InteractionRecordDuration.Observe(duration.Seconds())
	if err != nil {
		InteractionRecordFailures.Inc()
	} else {
		InteractionsRecorded.Inc()
	}
}

// RecordNATSPublish records a message being published to NATS
func RecordNATSPublish() {
	NATSMessagesPublished.Inc()
}

// RecordNATSConsume records a message being consumed from NATS
func RecordNATSConsume() {
	NATSMessagesConsumed.Inc()
}

// RecordNATSProcessed records a message being successfully processed
func RecordNATSProcessed() {
	NATSMessagesProcessed.Inc()
}

// RecordNATSParseFailed records a message that failed to parse
func RecordNATSParseFailed() {
	NATSMessagesParseFailed.Inc()
}

// RecordNATSProcessingDuration records the duration of message processing
func RecordNATSProcessingDuration(duration time.Duration) {
	NATSProcessingDuration.Observe(duration.Seconds())
}

// RecordAggregationTrigger records an event-driven aggregation trigger
func RecordAggregationTrigger() {
	NATSAggregationTriggers.Inc()
}
