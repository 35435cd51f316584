// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

// Package events provides interaction event fan-out over NATS JetStream
// using Watermill, bridging the tracking write path to the analytics
// merge scheduler.
//
// # Data Flow
//
// Interactions are durable in Badger before they reach the bus; the bus
// carries notifications, not the system of record:
//
//	POST /interactions → InteractionStore insert → Publisher
//	                                                  │
//	                                                  ▼
//	                                     ┌─────────────────────┐
//	                                     │   NATS JetStream    │
//	                                     │ (INTERACTIONS)      │
//	                                     └─────────┬───────────┘
//	                                               │
//	                                               ▼
//	                                     Trigger (threshold count)
//	                                               │
//	                                               ▼
//	                                     Scheduler.TriggerRun()
//	                                               │
//	                                               ▼
//	                                     aggregation merge → DuckDB
//
// Because the store is authoritative, every consumed message is acked
// regardless of outcome: a lost or unparseable notification costs at
// most merge latency, never data. The trigger counts consumed events
// and fires the scheduler once the configured threshold is crossed,
// keeping rankings fresh between timer ticks without merging on every
// single interaction.
//
// # Key Components
//
//   - EmbeddedServer: optional in-process NATS JetStream server for
//     single-instance deployments
//   - StreamInitializer: idempotent stream provisioning before
//     publishers and subscribers start
//   - Publisher: Watermill publisher with reconnection handling and
//     Nats-Msg-Id deduplication
//   - Subscriber: durable queue-group JetStream consumer
//   - Trigger: threshold counter driving the analytics scheduler
//   - Pipeline: lifecycle owner assembling all of the above
//
// # Build Tags
//
// The full implementation requires -tags=nats. Without the tag the
// package compiles to an inert Pipeline stub: tracking still works,
// merges happen only on the timer or on demand.
package events
