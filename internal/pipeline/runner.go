// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/models"
)

var (
	// ErrNoModel is returned before the first successful run.
	ErrNoModel = errors.New("no model has been trained yet")

	// ErrRunInProgress is returned when a run is requested while another
	// one is still executing.
	ErrRunInProgress = errors.New("pipeline run already in progress")
)

// CatalogImporter receives the silver products after a run.
type CatalogImporter interface {
	Import(ctx context.Context, products []models.Product) (written, skipped int, err error)
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Options Options

	// Timeout bounds a single run; zero means no bound.
	Timeout time.Duration

	// SeedCatalog, when set, imports the silver products of every
	// successful run.
	SeedCatalog CatalogImporter
}

// Status describes the runner for the status endpoint.
type Status struct {
	Running      bool          `json:"running"`
	Runs         int64         `json:"runs"`
	Failures     int64         `json:"failures"`
	LastRunID    string        `json:"last_run_id,omitempty"`
	LastStarted  *time.Time    `json:"last_started,omitempty"`
	LastFinished *time.Time    `json:"last_finished,omitempty"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
	ModelVersion string        `json:"model_version,omitempty"`
}

// Runner executes pipeline runs one at a time and publishes the latest
// model for concurrent readers.
type Runner struct {
	cfg     RunnerConfig
	model   atomic.Pointer[Model]
	running atomic.Bool

	mu        sync.RWMutex
	status    Status
	listeners []func(*Model)
}

// NewRunner creates a runner with no model.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{cfg: cfg}
}

// OnPublish registers fn to be called after each new model is published.
func (r *Runner) OnPublish(fn func(*Model)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Model returns the latest published model, or nil.
func (r *Runner) Model() *Model {
	return r.model.Load()
}

// Current returns the latest model or ErrNoModel.
func (r *Runner) Current() (*Model, error) {
	if m := r.model.Load(); m != nil {
		return m, nil
	}
	return nil, ErrNoModel
}

// Publish replaces the served model and notifies listeners.
func (r *Runner) Publish(m *Model) {
	r.model.Store(m)

	r.mu.Lock()
	r.status.ModelVersion = m.Version
	listeners := append([]func(*Model){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(m)
	}
}

// Status returns a snapshot of the runner state.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.status
	s.Running = r.running.Load()
	return s
}

// Running reports whether a run is executing.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Run executes one pipeline run and publishes its model. The previous model
// keeps serving when the run fails.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.running.Store(false)

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	started := time.Now().UTC()
	r.mu.Lock()
	r.status.LastStarted = &started
	r.mu.Unlock()

	res, err := Run(ctx, r.cfg.Options)

	finished := time.Now().UTC()
	r.mu.Lock()
	r.status.Runs++
	r.status.LastFinished = &finished
	r.status.LastDuration = finished.Sub(started)
	if err != nil {
		r.status.Failures++
		r.status.LastError = err.Error()
	} else {
		r.status.LastError = ""
		r.status.LastRunID = res.RunID
	}
	r.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if r.cfg.SeedCatalog != nil && len(res.Artifacts.SilverProducts) > 0 {
		written, skipped, err := r.cfg.SeedCatalog.Import(ctx, res.Artifacts.SilverProducts)
		log := logging.Ctx(logging.ContextWithRunID(ctx, res.RunID))
		if err != nil {
			log.Warn().Err(err).Msg("Catalog seed failed")
		} else {
			log.Info().Int("written", written).Int("skipped", skipped).Msg("Catalog seeded from products source")
		}
	}

	r.Publish(res.Model)
	return res, nil
}
