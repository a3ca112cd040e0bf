// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/crosssell/internal/database"
	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/pipeline"
	"github.com/tomtom215/crosssell/internal/recommend"
	"github.com/tomtom215/crosssell/internal/recommend/assoc"
	"github.com/tomtom215/crosssell/internal/validation"
)

const (
	sourceModel     = "model"
	sourceWarehouse = "warehouse"

	// fallbackK applies when no model (and so no configured top-K) exists.
	fallbackK = 10
	maxK      = 100
)

// UserRecommendationsResponse is the payload of the user endpoint.
type UserRecommendationsResponse struct {
	UserID string                     `json:"user_id"`
	K      int                        `json:"k"`
	Source string                     `json:"source"`
	Items  []models.RecommendationRow `json:"items"`
	Count  int                        `json:"count"`
}

// SimilarItemsResponse is the payload of the similar items endpoint.
type SimilarItemsResponse struct {
	ProductID string                 `json:"product_id"`
	K         int                    `json:"k"`
	Items     []models.SimilarityRow `json:"items"`
	Count     int                    `json:"count"`
}

// ItemRulesResponse is the payload of the cross-sell rules endpoint.
type ItemRulesResponse struct {
	ProductID string           `json:"product_id"`
	K         int              `json:"k"`
	Source    string           `json:"source"`
	Items     []models.RuleRow `json:"items"`
	Count     int              `json:"count"`
}

// ItemsetsResponse is the payload of the itemsets endpoint.
type ItemsetsResponse struct {
	MinSize          int                 `json:"min_size"`
	TransactionCount int                 `json:"transaction_count"`
	Items            []recommend.Itemset `json:"items"`
	Count            int                 `json:"count"`
}

type topKQuery struct {
	K int `json:"k" validate:"gte=1,lte=100"`
}

type itemsetsQuery struct {
	MinSize int `json:"min_size" validate:"gte=1,lte=64"`
}

// intParam reads an integer query parameter. Absent parameters keep def;
// ok is false (and a 400 has been written) when the value is not an integer.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, name+" must be an integer", nil)
		return 0, false
	}
	return n, true
}

func defaultK(m *pipeline.Model) int {
	if m == nil || m.TopK <= 0 {
		return fallbackK
	}
	return min(m.TopK, maxK)
}

// parseK validates the k query parameter against [1, 100].
func parseK(w http.ResponseWriter, r *http.Request, m *pipeline.Model) (int, bool) {
	k, ok := intParam(w, r, "k", defaultK(m))
	if !ok {
		return 0, false
	}
	q := topKQuery{K: k}
	if verr := validation.ValidateStruct(&q); verr != nil {
		respondValidation(w, verr)
		return 0, false
	}
	return q.K, true
}

func (h *Handler) modelNotReady(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusServiceUnavailable, ErrCodeModelNotReady, "No model has been trained yet", nil)
}

// warehouseError answers 503 while the warehouse breaker is open and 500
// for other query failures.
func warehouseError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, database.ErrWarehouseUnavailable) {
		status = http.StatusServiceUnavailable
	}
	respondError(w, r, status, ErrCodeStorage, msg, err)
}

func (h *Handler) catalogLookup(ctx context.Context) map[string]models.Product {
	if h.catalog == nil {
		return nil
	}
	products, err := h.catalog.List(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Catalog unavailable for enrichment")
		return nil
	}
	m := make(map[string]models.Product, len(products))
	for _, p := range products {
		m[p.ProductID] = p
	}
	return m
}

// UserRecommendations handles GET /api/v1/recommendations/users/{userID}.
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	model, modelErr := h.models.Current()
	k, ok := parseK(w, r, model)
	if !ok {
		return
	}

	if modelErr != nil {
		if h.warehouse == nil {
			h.modelNotReady(w, r)
			return
		}
		recs, err := h.warehouse.RecommendationsForUser(r.Context(), userID, k)
		if err != nil {
			warehouseError(w, r, "Failed to query recommendations", err)
			return
		}
		catalog := h.catalogLookup(r.Context())
		rows := make([]models.RecommendationRow, len(recs))
		for i, rec := range recs {
			rows[i] = models.RecommendationRow{UserID: rec.UserID, ProductID: rec.ProductID, Score: rec.Score}
			if p, ok := catalog[rec.ProductID]; ok {
				rows[i].WithProduct(p)
			}
		}
		respondData(w, http.StatusOK, UserRecommendationsResponse{
			UserID: userID, K: k, Source: sourceWarehouse, Items: rows, Count: len(rows),
		}, models.Metadata{})
		return
	}

	v, hit, _ := h.cached(cacheKey(model.Version, "user", userID, itoa(k)), func() (interface{}, error) {
		var customer *models.Customer
		if c, ok := model.Customers[userID]; ok {
			customer = &c
		}
		rows := pipeline.RecommendationRows(model.Factors, userID, k, model.Catalog, customer)
		return UserRecommendationsResponse{UserID: userID, K: k, Source: sourceModel, Items: rows, Count: len(rows)}, nil
	})
	respondData(w, http.StatusOK, v, models.Metadata{Cached: hit, ModelVersion: model.Version})
}

// SimilarItems handles GET /api/v1/recommendations/items/{itemID}/similar.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	model, err := h.models.Current()
	k, ok := parseK(w, r, model)
	if !ok {
		return
	}
	if err != nil {
		h.modelNotReady(w, r)
		return
	}

	v, hit, _ := h.cached(cacheKey(model.Version, "similar", itemID, itoa(k)), func() (interface{}, error) {
		rows := pipeline.SimilarityRows(model.Factors, itemID, k, model.Catalog)
		return SimilarItemsResponse{ProductID: itemID, K: k, Items: rows, Count: len(rows)}, nil
	})
	respondData(w, http.StatusOK, v, models.Metadata{Cached: hit, ModelVersion: model.Version})
}

// ItemRules handles GET /api/v1/recommendations/items/{itemID}/rules.
// Rules whose antecedent contains the item are returned in rule order.
func (h *Handler) ItemRules(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	model, modelErr := h.models.Current()
	k, ok := parseK(w, r, model)
	if !ok {
		return
	}

	if modelErr != nil {
		if h.warehouse == nil {
			h.modelNotReady(w, r)
			return
		}
		rules, err := h.warehouse.TopRulesForItem(r.Context(), itemID, k)
		if err != nil {
			warehouseError(w, r, "Failed to query rules", err)
			return
		}
		rows := pipeline.EnrichRules(rules, h.catalogLookup(r.Context()))
		respondData(w, http.StatusOK, ItemRulesResponse{
			ProductID: itemID, K: k, Source: sourceWarehouse, Items: rows, Count: len(rows),
		}, models.Metadata{})
		return
	}

	v, hit, _ := h.cached(cacheKey(model.Version, "rules", itemID, itoa(k)), func() (interface{}, error) {
		rows := pipeline.EnrichRules(assoc.TopRulesForItem(model.Mining.Rules, itemID, k), model.Catalog)
		return ItemRulesResponse{ProductID: itemID, K: k, Source: sourceModel, Items: rows, Count: len(rows)}, nil
	})
	respondData(w, http.StatusOK, v, models.Metadata{Cached: hit, ModelVersion: model.Version})
}

// Itemsets handles GET /api/v1/itemsets?min_size=.
func (h *Handler) Itemsets(w http.ResponseWriter, r *http.Request) {
	minSize, ok := intParam(w, r, "min_size", 1)
	if !ok {
		return
	}
	q := itemsetsQuery{MinSize: minSize}
	if verr := validation.ValidateStruct(&q); verr != nil {
		respondValidation(w, verr)
		return
	}
	model, err := h.models.Current()
	if err != nil {
		h.modelNotReady(w, r)
		return
	}

	v, hit, _ := h.cached(cacheKey(model.Version, "itemsets", itoa(q.MinSize)), func() (interface{}, error) {
		items := assoc.FilterItemsets(model.Mining.Itemsets, q.MinSize)
		return ItemsetsResponse{
			MinSize:          q.MinSize,
			TransactionCount: model.Mining.TransactionCount,
			Items:            items,
			Count:            len(items),
		}, nil
	})
	respondData(w, http.StatusOK, v, models.Metadata{Cached: hit, ModelVersion: model.Version})
}
