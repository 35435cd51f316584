// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

/*
Package models defines data structures for the Mercantile application.

This package contains all data models used throughout the application:
store record shapes, the merged catalog output, interaction events,
analytics aggregates, and API request/response structures. It serves as
the single source of truth for data structure definitions.

Model Categories:

1. Store Records:
  - CoreRecord: Transactional product fields from PostgreSQL
  - DetailRecord: Schema-open product document from Badger
  - InteractionEvent: Append-only user interaction event

2. Reconciliation Output:
  - MergedProduct: Superset of core and detail fields plus enrichment,
    serialized flat so open detail attributes sit alongside named fields

3. Analytics Models:
  - InteractionAggregate: Per-product interaction count (recomputed wholesale)
  - RankingRow: Persisted ranking warehouse row
  - CategoryStats: Details-store category aggregation result

4. API Response Models:
  - APIResponse: Standard response wrapper
  - APIError: Error details with stable codes
  - Metadata: Response metadata (timestamp, query time)

Request body DTOs live in internal/api next to the handlers that bind
them; this package owns only the shapes that cross package boundaries.

Usage Example - Reconciliation:

	import "github.com/dverne/mercantile/internal/models"

	core := models.CoreRecordFromMap(row)
	details := models.DetailRecordFromMap(doc)

	product := models.MergedFromCore(core)
	details.ApplyTo(&product)

	json.NewEncoder(w).Encode(product) // flat object, detail keys win

Usage Example - API Response:

	response := models.APIResponse{
	    Status: "success",
	    Data:   product,
	    Metadata: models.Metadata{
	        Timestamp:   time.Now(),
	        QueryTimeMS: 12,
	    },
	}

Merge Precedence:

DetailRecord fields take precedence over CoreRecord fields on key
collision, both at merge time (ApplyTo overwrites lifted fields) and at
serialization time (Attrs entries overlay named fields). The two
mechanisms together reproduce a shallow details-over-core map merge
while keeping the hot fields typed.

Thread Safety:

All models are data structures only, safe for concurrent read access.
MergedProduct.Attrs is a plain map; callers that mutate a product after
handing it out must copy first.

See Also:

  - internal/catalog: Reconciliation engine producing MergedProduct
  - internal/gateway: Store access returning raw rows and documents
  - internal/analytics: Orchestrator producing aggregates and rankings
*/
package models
