// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/crosssell/internal/catalog"
	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/validation"
)

func (h *Handler) catalogMissing(w http.ResponseWriter, r *http.Request) bool {
	if h.catalog != nil {
		return false
	}
	respondError(w, r, http.StatusNotImplemented, ErrCodeNotConfigured, "Product catalog is not configured", nil)
	return true
}

// ListProducts handles GET /api/v1/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if h.catalogMissing(w, r) {
		return
	}
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeStorage, "Failed to list products", err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"items": products,
		"count": len(products),
	}, models.Metadata{})
}

// GetProduct handles GET /api/v1/products/{productID}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	if h.catalogMissing(w, r) {
		return
	}
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "productID"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Product not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeStorage, "Failed to load product", err)
		return
	}
	respondData(w, http.StatusOK, p, models.Metadata{})
}

// UpsertProduct handles POST /api/v1/products. The body is one product;
// string fields are trimmed before validation.
func (h *Handler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	if h.catalogMissing(w, r) {
		return
	}

	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidBody, "Request body must be one JSON product object", nil)
		return
	}
	p.ProductID = strings.TrimSpace(p.ProductID)
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Subcategory = strings.TrimSpace(p.Subcategory)
	p.Brand = strings.TrimSpace(p.Brand)

	if verr := validation.ValidateStruct(&p); verr != nil {
		respondValidation(w, verr)
		return
	}

	saved, err := h.catalog.Upsert(r.Context(), p)
	if errors.Is(err, catalog.ErrInvalidProduct) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeStorage, "Failed to save product", err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("product_id", saved.ProductID).Msg("Product upserted")
	respondData(w, http.StatusCreated, saved, models.Metadata{})
}
