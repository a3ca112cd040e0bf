// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/pipeline"
)

// RunSummary describes a completed run in the trigger response.
type RunSummary struct {
	RunID               string        `json:"run_id"`
	ModelVersion        string        `json:"model_version"`
	Duration            time.Duration `json:"duration"`
	Orders              int           `json:"orders"`
	Rules               int           `json:"rules"`
	SimilarityRows      int           `json:"similarity_rows"`
	RecommendationRows  int           `json:"recommendation_rows"`
	SkippedPivots       int64         `json:"skipped_pivots"`
	EvaluationPrecision *float64      `json:"evaluation_precision_at_k,omitempty"`
}

func summarize(res *pipeline.Result) RunSummary {
	s := RunSummary{
		RunID:              res.RunID,
		ModelVersion:       res.Model.Version,
		Duration:           res.Duration,
		Orders:             len(res.Artifacts.SilverOrders),
		Rules:              len(res.Artifacts.AssocRules),
		SimilarityRows:     len(res.Artifacts.ItemSimilarity),
		RecommendationRows: len(res.Artifacts.UserRecommendations),
	}
	if res.Model.TrainReport != nil {
		s.SkippedPivots = res.Model.TrainReport.SkippedPivots
	}
	if res.Model.Evaluation != nil {
		p := res.Model.Evaluation.Precision
		s.EvaluationPrecision = &p
	}
	return s
}

// TriggerPipeline handles POST /api/v1/pipeline/run.
//
// By default the run starts in the background and the handler answers 202.
// With wait=true the handler blocks until the run ends and returns its
// summary. A run already in progress yields 409 PIPELINE_BUSY.
func (h *Handler) TriggerPipeline(w http.ResponseWriter, r *http.Request) {
	if h.models.Running() {
		respondError(w, r, http.StatusConflict, ErrCodePipelineBusy, "A pipeline run is already in progress", nil)
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		res, err := h.models.Run(r.Context())
		switch {
		case errors.Is(err, pipeline.ErrRunInProgress):
			respondError(w, r, http.StatusConflict, ErrCodePipelineBusy, "A pipeline run is already in progress", nil)
		case err != nil:
			respondError(w, r, http.StatusInternalServerError, ErrCodePipelineFailed, "Pipeline run failed", err)
		default:
			respondData(w, http.StatusOK, summarize(res), models.Metadata{ModelVersion: res.Model.Version})
		}
		return
	}

	// The run outlives the request; keep its ids for logging only.
	ctx := context.WithoutCancel(r.Context())
	h.background.Add(1)
	go func() {
		defer h.background.Done()
		if _, err := h.models.Run(ctx); err != nil && !errors.Is(err, pipeline.ErrRunInProgress) {
			logging.Ctx(ctx).Error().Err(err).Msg("Triggered pipeline run failed")
		}
	}()
	respondData(w, http.StatusAccepted, map[string]interface{}{"started": true}, models.Metadata{})
}

// PipelineStatus handles GET /api/v1/pipeline/status.
func (h *Handler) PipelineStatus(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"runner": h.models.Status()}
	var meta models.Metadata
	if m, err := h.models.Current(); err == nil {
		meta.ModelVersion = m.Version
		data["model"] = m
	}
	respondData(w, http.StatusOK, data, meta)
}
