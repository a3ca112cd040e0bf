// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/crosssell/internal/middleware"
	"github.com/tomtom215/crosssell/internal/models"
)

// NewRouter wires the handler into a chi router with the global middleware
// stack. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	r := chi.NewRouter()

	// Applied to all routes, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(mw.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, &models.APIResponse{
			Status: "error",
			Error:  &models.APIError{Code: "METHOD_NOT_ALLOWED", Message: "Method not allowed"},
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitHealth))
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/users/{userID}", h.UserRecommendations)
			r.Get("/items/{itemID}/similar", h.SimilarItems)
			r.Get("/items/{itemID}/rules", h.ItemRules)
		})
		r.Get("/itemsets", h.Itemsets)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.UpsertProduct)
			r.Get("/{productID}", h.GetProduct)
		})

		r.Route("/pipeline", func(r chi.Router) {
			r.With(mw.RateLimitCustom(RateLimitPipeline)).Post("/run", h.TriggerPipeline)
			r.Get("/status", h.PipelineStatus)
		})
	})

	return r
}
