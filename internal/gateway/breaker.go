// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package gateway

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
)

// Breaker defaults, applied when the config leaves a field unset.
const (
	breakerName                = "postgres-core"
	defaultBreakerMinRequests  = 10
	defaultBreakerFailureRatio = 0.6
	defaultBreakerInterval     = time.Minute
	defaultBreakerTimeout      = 2 * time.Minute
	defaultBreakerMaxHalfOpen  = 3
)

// BreakerSettings tunes the core-store circuit breaker.
type BreakerSettings struct {
	MinRequests  int
	FailureRatio float64
	Interval     time.Duration
	Timeout      time.Duration
	MaxHalfOpen  int
}

// BreakerCore decorates a CoreStore with a circuit breaker. When the
// core database degrades, the breaker opens and requests fail
// immediately; the reconciliation engine then serves its fallback path
// instead of queueing on a dead connection pool.
//
// Rejections surface as ordinary fetch errors on purpose: the engine
// treats any core failure as source absence, open breaker included.
type BreakerCore struct {
	inner CoreStore
	cb    *gobreaker.CircuitBreaker[any]
}

var _ CoreStore = (*BreakerCore)(nil)

// WrapCoreWithBreaker decorates the core store. Zero-valued settings
// fall back to the package defaults.
func WrapCoreWithBreaker(inner CoreStore, settings BreakerSettings) *BreakerCore {
	if settings.MinRequests <= 0 {
		settings.MinRequests = defaultBreakerMinRequests
	}
	if settings.FailureRatio <= 0 {
		settings.FailureRatio = defaultBreakerFailureRatio
	}
	if settings.Interval <= 0 {
		settings.Interval = defaultBreakerInterval
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaultBreakerTimeout
	}
	if settings.MaxHalfOpen <= 0 {
		settings.MaxHalfOpen = defaultBreakerMaxHalfOpen
	}

	cbSettings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: uint32(settings.MaxHalfOpen),
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < uint32(settings.MinRequests) {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()

			evt := logging.Info()
			if to == gobreaker.StateOpen {
				evt = logging.Warn()
			}
			evt.
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("core store circuit breaker state changed")
		},
	}

	return &BreakerCore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[any](cbSettings),
	}
}

// FetchCore runs the inner fetch through the breaker.
func (b *BreakerCore) FetchCore(ctx context.Context, productID string) (any, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.inner.FetchCore(ctx, productID)
	})
	b.record(err)
	return out, err
}

// ListCore runs the inner listing through the breaker.
func (b *BreakerCore) ListCore(ctx context.Context) (any, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.inner.ListCore(ctx)
	})
	b.record(err)
	return out, err
}

// Ping bypasses the breaker: readiness must reflect real store health,
// and a successful probe is also how operators confirm recovery while
// the breaker is still open.
func (b *BreakerCore) Ping(ctx context.Context) error {
	if p, ok := b.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// State returns the current breaker state for health detail endpoints.
func (b *BreakerCore) State() string {
	return b.cb.State().String()
}

func (b *BreakerCore) record(err error) {
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
