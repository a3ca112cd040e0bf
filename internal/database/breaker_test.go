// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/crosssell/internal/recommend"
)

type flakyQuerier struct {
	err   error
	calls int
}

func (f *flakyQuerier) Ping(context.Context) error { return f.err }

func (f *flakyQuerier) TopRulesForItem(_ context.Context, item string, _ int) ([]recommend.Rule, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []recommend.Rule{{Antecedent: []string{item}, Consequent: []string{"B"}}}, nil
}

func (f *flakyQuerier) RecommendationsForUser(_ context.Context, user string, _ int) ([]recommend.UserRecommendation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []recommend.UserRecommendation{{UserID: user, ProductID: "A", Score: 1}}, nil
}

func TestGuardedReader_PassesThrough(t *testing.T) {
	g := NewGuardedReader(&flakyQuerier{}, BreakerSettings{})
	rules, err := g.TopRulesForItem(context.Background(), "A", 5)
	if err != nil || len(rules) != 1 || rules[0].Antecedent[0] != "A" {
		t.Fatalf("TopRulesForItem() = %v, %v", rules, err)
	}
	recs, err := g.RecommendationsForUser(context.Background(), "U1", 5)
	if err != nil || len(recs) != 1 || recs[0].UserID != "U1" {
		t.Fatalf("RecommendationsForUser() = %v, %v", recs, err)
	}
	if g.State() != gobreaker.StateClosed {
		t.Errorf("state = %v", g.State())
	}
}

func TestGuardedReader_OpensAfterFailures(t *testing.T) {
	boom := errors.New("database is locked")
	q := &flakyQuerier{err: boom}
	g := NewGuardedReader(q, BreakerSettings{MinRequests: 3, FailureRatio: 0.5, OpenTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		if _, err := g.TopRulesForItem(context.Background(), "A", 1); !errors.Is(err, boom) {
			t.Fatalf("call %d error = %v, want %v", i, err, boom)
		}
	}
	if g.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", g.State())
	}

	_, err := g.RecommendationsForUser(context.Background(), "U1", 1)
	if !errors.Is(err, ErrWarehouseUnavailable) {
		t.Errorf("open breaker error = %v, want ErrWarehouseUnavailable", err)
	}
	if q.calls != 3 {
		t.Errorf("querier called %d times, want no call while open", q.calls)
	}

	// Ping is not guarded.
	if err := g.Ping(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Ping() = %v", err)
	}
}

func TestGuardedReader_IgnoresCancellation(t *testing.T) {
	g := NewGuardedReader(&flakyQuerier{err: context.Canceled}, BreakerSettings{MinRequests: 1, FailureRatio: 0.1})
	for i := 0; i < 5; i++ {
		_, _ = g.TopRulesForItem(context.Background(), "A", 1)
	}
	if g.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, canceled requests tripped the breaker", g.State())
	}
}
