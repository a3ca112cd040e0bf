// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package api

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/crosssell/internal/cache"
	"github.com/tomtom215/crosssell/internal/metrics"
	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/pipeline"
	"github.com/tomtom215/crosssell/internal/recommend"
)

// ModelProvider serves the latest model and triggers runs.
// *pipeline.Runner implements it.
type ModelProvider interface {
	Current() (*pipeline.Model, error)
	Status() pipeline.Status
	Running() bool
	Run(ctx context.Context) (*pipeline.Result, error)
}

// ProductStore is the catalog used by the products endpoints.
// *catalog.Store implements it.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	Upsert(ctx context.Context, p models.Product) (models.Product, error)
}

// GoldReader answers queries from the warehouse gold tables.
// *database.DB implements it.
type GoldReader interface {
	Ping(ctx context.Context) error
	TopRulesForItem(ctx context.Context, item string, k int) ([]recommend.Rule, error)
	RecommendationsForUser(ctx context.Context, userID string, k int) ([]recommend.UserRecommendation, error)
}

// Dependencies are the collaborators of a Handler. Only Models is required.
type Dependencies struct {
	Models    ModelProvider
	Catalog   ProductStore
	Warehouse GoldReader

	CacheSize int
	CacheTTL  time.Duration
}

// Handler implements the API endpoints.
type Handler struct {
	models    ModelProvider
	catalog   ProductStore
	warehouse GoldReader
	cache     *cache.LRU[interface{}]
	startTime time.Time

	// background tracks runs started without wait=true.
	background sync.WaitGroup
}

// NewHandler creates a handler. A zero CacheSize disables the query cache.
//
//nolint:gocritic // dependencies are copied once at startup
func NewHandler(deps Dependencies) *Handler {
	h := &Handler{
		models:    deps.Models,
		catalog:   deps.Catalog,
		warehouse: deps.Warehouse,
		startTime: time.Now(),
	}
	if deps.CacheSize > 0 {
		h.cache = cache.NewLRU[interface{}](deps.CacheSize, deps.CacheTTL)
	}
	return h
}

// InvalidateCache drops every cached query result. Register it with
// pipeline.Runner.OnPublish.
func (h *Handler) InvalidateCache() {
	if h.cache == nil {
		return
	}
	h.cache.Clear()
	metrics.QueryCacheEntries.Set(0)
}

// Wait blocks until background pipeline runs started by the handler finish.
func (h *Handler) Wait() {
	h.background.Wait()
}

func cacheKey(version string, parts ...string) string {
	return version + "|" + strings.Join(parts, "|")
}

// cached returns the value under key or computes and stores it. The bool
// result reports a cache hit.
func (h *Handler) cached(key string, compute func() (interface{}, error)) (interface{}, bool, error) {
	if h.cache == nil {
		v, err := compute()
		return v, false, err
	}
	if v, ok := h.cache.Get(key); ok {
		metrics.RecordCacheLookup(true)
		return v, true, nil
	}
	metrics.RecordCacheLookup(false)

	v, err := compute()
	if err != nil {
		return nil, false, err
	}
	h.cache.Set(key, v)
	metrics.QueryCacheEntries.Set(float64(h.cache.Len()))
	return v, false, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
