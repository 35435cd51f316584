// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

/*
Package services provides suture.Service wrappers for Mercantile components.

This package adapts application components to the suture v4 supervision
model, translating their lifecycle patterns (Start/Stop, RunGC, ListenAndServe)
into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation into the Serve pattern
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Badger GC (BadgerGCService):
  - Runs value-log garbage collection on an interval
  - GC failures are logged and retried on the next tick
  - Layer: data

Analytics Scheduler (SchedulerService):
  - Wraps analytics.Scheduler's Start/Stop lifecycle
  - Drives timed and threshold-triggered aggregation merges
  - Layer: messaging

Event Pipeline (PipelineService):
  - Wraps events.Pipeline's Start/Stop lifecycle
  - Interaction fan-out and merge triggering over NATS
  - Real implementation needs build tag: nats; the wrapper itself is untagged
  - Layer: messaging, added only when events are enabled

# Usage Example

	import (
	    "net/http"
	    "time"

	    "github.com/dverne/mercantile/internal/supervisor"
	    "github.com/dverne/mercantile/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, store *gateway.BadgerStore, sched *analytics.Scheduler) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    tree.AddDataService(services.NewBadgerGCService(store, 10*time.Minute))
	    tree.AddMessagingService(services.NewSchedulerService(sched))
	    tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	    tree.Serve(ctx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

Start failures are always returned so the supervisor retries under its
backoff policy. Per-tick failures inside a loop (a GC pass that finds
nothing to rewrite) are logged and absorbed instead; restarting the loop
would not change the outcome.

# Testing

Services are tested with mock components implementing the same small
interfaces the wrappers consume (HTTPServer, GCRunner, SchedulerManager,
PipelineRunner). See the _test.go files in this package.

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
*/
package services
