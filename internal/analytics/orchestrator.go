// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/dverne/mercantile/internal/catalog"
	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/gateway"
	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
	"github.com/dverne/mercantile/internal/models"
)

// ErrRunTooSoon signals that an aggregation merge was requested before
// the configured minimum interval since the previous run elapsed.
var ErrRunTooSoon = errors.New("aggregation merge requested too soon after previous run")

// rankingCounter is the optional capability of ranking stores that can
// report their total row count.
type rankingCounter interface {
	CountRankings(ctx context.Context) (int64, error)
}

const (
	defaultTopLimit = 5
	defaultTopMax   = 100
)

// Orchestrator moves interaction aggregates from the interaction store
// into the ranking warehouse and resolves ranked product IDs back into
// full catalog records.
type Orchestrator struct {
	core         gateway.CoreStore
	interactions gateway.InteractionStore
	rankings     gateway.RankingStore
	enricher     *catalog.Enricher
	limiter      *rate.Limiter
	topDefault   int
	topMax       int
}

// NewOrchestrator wires the orchestrator against its three stores. A
// zero MinRunInterval disables merge throttling.
func NewOrchestrator(
	core gateway.CoreStore,
	interactions gateway.InteractionStore,
	rankings gateway.RankingStore,
	enricher *catalog.Enricher,
	cfg config.AnalyticsConfig,
) *Orchestrator {
	limit := rate.Inf
	if cfg.MinRunInterval > 0 {
		limit = rate.Every(cfg.MinRunInterval)
	}
	topDefault := cfg.TopDefaultLimit
	if topDefault <= 0 {
		topDefault = defaultTopLimit
	}
	topMax := cfg.TopMaxLimit
	if topMax <= 0 {
		topMax = defaultTopMax
	}

	return &Orchestrator{
		core:         core,
		interactions: interactions,
		rankings:     rankings,
		enricher:     enricher,
		limiter:      rate.NewLimiter(limit, 1),
		topDefault:   topDefault,
		topMax:       topMax,
	}
}

// RunAggregationMerge recomputes interaction totals from the
// interaction store and upserts them into the ranking warehouse.
// Every run is wholesale: totals for all products with recorded
// interactions, no deltas. Returns the number of product aggregates
// merged. An unreadable interaction store degrades to an empty run,
// matching the listing policy of logging the source failure and
// producing what the remaining data allows; only a ranking-store write
// failure surfaces an error.
func (o *Orchestrator) RunAggregationMerge(ctx context.Context) (int, error) {
	if !o.limiter.Allow() {
		metrics.RecordETLRun("throttled", 0, 0)
		return 0, ErrRunTooSoon
	}

	start := time.Now()

	raw, err := o.interactions.FetchInteractionAggregates(ctx)
	if err != nil {
		logging.Warn().
			Err(err).
			Msg("interaction aggregate fetch failed, treating as empty")
	}
	rows := catalog.List(raw, err)
	if len(rows) == 0 {
		metrics.RecordETLRun("empty", time.Since(start), 0)
		logging.Info().Msg("aggregation merge found no interaction data")
		return 0, nil
	}

	aggregates := make([]models.InteractionAggregate, 0, len(rows))
	for _, row := range rows {
		aggregates = append(aggregates, models.InteractionAggregateFromMap(row))
	}

	if err := o.rankings.MergeRankings(ctx, aggregates); err != nil {
		metrics.RecordETLRun("failed", time.Since(start), 0)
		return 0, fmt.Errorf("merging rankings: %w", err)
	}

	processed := len(aggregates)
	metrics.RecordETLRun("success", time.Since(start), processed)
	evt := logging.Info().
		Int("products_processed", processed).
		Dur("duration", time.Since(start))
	if counter, ok := o.rankings.(rankingCounter); ok {
		if total, err := counter.CountRankings(ctx); err == nil {
			evt = evt.Int64("total_ranked", total)
		}
	}
	evt.Msg("aggregation merge complete")
	return processed, nil
}

// ResolveTopN reads the n highest-ranked products from the warehouse
// and joins each against the transactional store. Rows whose core
// record is missing or unfetchable are skipped, not errors: the
// ranking may legitimately reference products that have since left the
// catalog. Result order is the warehouse order (score descending).
// n <= 0 selects the configured default; n above the configured
// maximum is capped.
func (o *Orchestrator) ResolveTopN(ctx context.Context, n int) ([]models.MergedProduct, error) {
	if n <= 0 {
		n = o.topDefault
	}
	if n > o.topMax {
		n = o.topMax
	}

	start := time.Now()

	raw, err := o.rankings.FetchTopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("fetching top rankings: %w", err)
	}
	rows := catalog.List(raw, nil)

	products := make([]models.MergedProduct, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		ranking := models.RankingRowFromMap(row)
		res := catalog.First(o.core.FetchCore(ctx, ranking.ProductID))
		if res.Kind != catalog.Record {
			skipped++
			if res.Kind == catalog.Failed {
				logging.Warn().
					Err(res.Err).
					Str("product_id", ranking.ProductID).
					Msg("core fetch failed for ranked product, skipping")
			} else {
				logging.Warn().
					Str("product_id", ranking.ProductID).
					Msg("no core record for ranked product, skipping")
			}
			continue
		}

		product := models.MergedFromCore(models.CoreRecordFromMap(res.Fields))
		product.TotalViews = ranking.InteractionScore
		o.enricher.ApplyThumbnail(&product)
		products = append(products, product)
	}

	metrics.RecordRankingQuery(time.Since(start), skipped)
	logging.Debug().
		Int("requested", n).
		Int("resolved", len(products)).
		Int("skipped", skipped).
		Msg("top products resolved")
	return products, nil
}
