// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/crosssell/internal/models"
)

// HealthLive handles GET /api/v1/health/live.
// It returns 200 while the process is up, regardless of model state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady handles GET /api/v1/health/ready.
// It returns 200 once a model is served and the warehouse (if configured)
// answers, and 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	model, err := h.models.Current()
	modelReady := err == nil

	warehouse := "disabled"
	warehouseOK := true
	if h.warehouse != nil {
		warehouse = "connected"
		if err := h.warehouse.Ping(r.Context()); err != nil {
			warehouse = "unreachable"
			warehouseOK = false
		}
	}

	data := map[string]interface{}{
		"ready":     modelReady && warehouseOK,
		"model":     modelReady,
		"warehouse": warehouse,
	}
	var meta models.Metadata
	if modelReady {
		meta.ModelVersion = model.Version
		data["trained_at"] = model.TrainedAt
	}

	if !modelReady || !warehouseOK {
		code := ErrCodeModelNotReady
		if modelReady {
			code = ErrCodeStorage
		}
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     data,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    &models.APIError{Code: code, Message: "Service is not ready"},
		})
		return
	}
	respondData(w, http.StatusOK, data, meta)
}
