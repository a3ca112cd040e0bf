// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/crosssell/internal/pipeline"
)

// PipelineRunner runs one pipeline pass. Satisfied by *pipeline.Runner.
type PipelineRunner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// PipelineServiceConfig controls scheduling.
type PipelineServiceConfig struct {
	// RunOnStartup runs the pipeline as soon as the service starts.
	RunOnStartup bool

	// Interval between scheduled runs. Zero disables scheduling; runs then
	// happen only on startup or through the API.
	Interval time.Duration
}

// PipelineService schedules pipeline runs under suture. A failed run is
// logged and retried on the next tick; it never stops the service, so the
// previously published model stays in place.
type PipelineService struct {
	runner PipelineRunner
	config PipelineServiceConfig
	logger zerolog.Logger
	name   string
}

// NewPipelineService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipelineService(runner PipelineRunner, cfg PipelineServiceConfig, logger zerolog.Logger) *PipelineService {
	return &PipelineService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "pipeline").Logger(),
		name:   "pipeline-service",
	}
}

// Serve implements suture.Service.
func (s *PipelineService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Pipeline service starting")

	if s.config.RunOnStartup {
		s.run(ctx, "startup")
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Pipeline service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, "schedule")
		}
	}
}

func (s *PipelineService) run(ctx context.Context, trigger string) {
	res, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrRunInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("Skipping run, another run is in progress")
	case err != nil:
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("Pipeline run failed, keeping previous model")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Str("run_id", res.RunID).
			Dur("duration", res.Duration).
			Msg("Pipeline run complete")
	}
}

// String names the service in supervisor events.
func (s *PipelineService) String() string {
	return s.name
}
