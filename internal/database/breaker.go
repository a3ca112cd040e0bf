// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/metrics"
	"github.com/tomtom215/crosssell/internal/recommend"
)

// ErrWarehouseUnavailable is returned while the breaker rejects reads.
var ErrWarehouseUnavailable = errors.New("warehouse unavailable")

// GoldQuerier is the read side of the warehouse. Satisfied by *DB.
type GoldQuerier interface {
	Ping(ctx context.Context) error
	TopRulesForItem(ctx context.Context, item string, k int) ([]recommend.Rule, error)
	RecommendationsForUser(ctx context.Context, userID string, k int) ([]recommend.UserRecommendation, error)
}

// BreakerSettings tunes GuardedReader. Zero fields take the defaults.
type BreakerSettings struct {
	// MinRequests before the failure ratio is considered. Default: 10.
	MinRequests uint32
	// FailureRatio at which the breaker opens. Default: 0.6.
	FailureRatio float64
	// Interval after which closed-state counts reset. Default: 1m.
	Interval time.Duration
	// OpenTimeout before a half-open probe. Default: 30s.
	OpenTimeout time.Duration
}

// GuardedReader puts a circuit breaker in front of warehouse reads so a
// failing database is not queried on every request. Ping bypasses the
// breaker so readiness reflects the real state.
type GuardedReader struct {
	next GoldQuerier
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewGuardedReader wraps next.
func NewGuardedReader(next GoldQuerier, s BreakerSettings) *GuardedReader {
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}
	if s.Interval == 0 {
		s.Interval = time.Minute
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	const name = "warehouse"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		// Canceled requests say nothing about warehouse health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &GuardedReader{next: next, cb: cb, name: name}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State reports the breaker state.
func (g *GuardedReader) State() gobreaker.State {
	return g.cb.State()
}

func (g *GuardedReader) execute(fn func() (any, error)) (any, error) {
	v, err := g.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
		return nil, fmt.Errorf("%w: %w", ErrWarehouseUnavailable, err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	return v, nil
}

// Ping checks the wrapped warehouse directly.
func (g *GuardedReader) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

// TopRulesForItem reads rules through the breaker.
func (g *GuardedReader) TopRulesForItem(ctx context.Context, item string, k int) ([]recommend.Rule, error) {
	v, err := g.execute(func() (any, error) {
		return g.next.TopRulesForItem(ctx, item, k)
	})
	if err != nil {
		return nil, err
	}
	return v.([]recommend.Rule), nil
}

// RecommendationsForUser reads recommendations through the breaker.
func (g *GuardedReader) RecommendationsForUser(ctx context.Context, userID string, k int) ([]recommend.UserRecommendation, error) {
	v, err := g.execute(func() (any, error) {
		return g.next.RecommendationsForUser(ctx, userID, k)
	})
	if err != nil {
		return nil, err
	}
	return v.([]recommend.UserRecommendation), nil
}
