// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package models

// HealthStatus is the payload of the health endpoint. Status is
// "healthy" when every backing store responds and "degraded"
// otherwise; the per-store booleans say which one is down. The
// service keeps serving while degraded because the reconciliation
// engine tolerates absent sources.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	CoreConnected     bool    `json:"core_connected"`
	DetailsConnected  bool    `json:"details_connected"`
	RankingsConnected bool    `json:"rankings_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}
