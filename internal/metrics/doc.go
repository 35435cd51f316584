// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - Backing store call latency and error rates (PostgreSQL, Badger, DuckDB)
  - Reconciliation scenario outcomes (merged, partial, fallback, not found)
  - Catalog listing source contributions and tolerated failures
  - Interaction write throughput
  - ETL orchestration runs and batch sizes
  - Top-N ranking queries and skipped rows
  - HTTP request latency and throughput
  - Circuit breaker state transitions
  - NATS event processing (when built with -tags=nats)

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8094/metrics

# Available Metrics

Store Metrics:
  - store_query_duration_seconds: Store call latency (histogram)
    Labels: store (postgres, badger, duckdb), operation
  - store_query_errors_total: Failed store calls (counter)
    Labels: store, operation

Reconciliation Metrics:
  - reconcile_scenarios_total: Outcome counts (counter)
    Labels: scenario (merged, partial, fallback, not_found)
  - reconcile_duration_seconds: Reconciliation latency (histogram)
  - reconcile_source_failures_total: Swallowed per-source failures (counter)
    Labels: source (core, details)
  - normalizer_decode_failures_total: Undecodable store results (counter)

ETL Metrics:
  - etl_runs_total: Merge runs by result (counter)
    Labels: result (success, empty, failed, throttled)
  - etl_duration_seconds: Run duration (histogram)
  - etl_products_processed_total: Aggregates merged (counter)
  - etl_batch_size: Aggregates per run (histogram)
  - etl_last_success_timestamp: Unix timestamp of last success (gauge)

Ranking Metrics:
  - ranking_queries_total: Top-N resolutions (counter)
  - ranking_rows_skipped_total: Rows dropped for missing core records (counter)
  - ranking_query_duration_seconds: Resolution latency (histogram)

HTTP Metrics:
  - api_requests_total: Total requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

# Usage Example

Recording a store call:

	start := time.Now()
	rows, err := pool.Query(ctx, query)
	metrics.RecordStoreQuery("postgres", "list_core", time.Since(start), err)

Recording a reconciliation outcome:

	metrics.RecordReconcileScenario("fallback", time.Since(start))

Recording an ETL run:

	metrics.RecordETLRun("success", time.Since(start), processed)

# Cardinality Management

Label values are drawn from small fixed sets (store names, scenario
names, route patterns). Raw product IDs, user IDs, and error strings
are never used as label values; per-item detail belongs in logs.

# Thread Safety

All metrics use the Prometheus client's atomic operations and are safe
for concurrent use without additional locking.

# See Also

  - internal/middleware: HTTP middleware recording request metrics
  - internal/catalog: Reconciliation scenario recording
  - internal/analytics: ETL and ranking metric recording
  - internal/gateway: Store call and circuit breaker recording
*/
package metrics
