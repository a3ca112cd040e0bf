// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package recommend

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfig is returned when hyperparameters are out of range.
	ErrInvalidConfig = errors.New("invalid model configuration")

	// ErrInvalidInput is returned when an input record violates basic
	// invariants (empty identifiers, a basket without items, negative
	// quantities).
	ErrInvalidInput = errors.New("invalid input record")
)

// MiningConfig contains thresholds for association mining.
type MiningConfig struct {
	// MinSupport is the minimum itemset support as a fraction of
	// transactions. Converted to a count by flooring, never below 1.
	// Default: 0.1.
	MinSupport float64 `json:"min_support"`

	// MinConfidence is the minimum rule confidence.
	// Default: 0.3.
	MinConfidence float64 `json:"min_confidence"`

	// MinLift is the minimum rule lift.
	// Default: 1.0.
	MinLift float64 `json:"min_lift"`
}

// DefaultMiningConfig returns default mining thresholds.
func DefaultMiningConfig() MiningConfig {
	return MiningConfig{
		MinSupport:    0.1,
		MinConfidence: 0.3,
		MinLift:       1.0,
	}
}

// Validate checks the mining thresholds.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c MiningConfig) Validate() error {
	if isBad(c.MinSupport) || c.MinSupport <= 0 || c.MinSupport > 1 {
		return fmt.Errorf("%w: min_support must be in (0, 1], got %v", ErrInvalidConfig, c.MinSupport)
	}
	if isBad(c.MinConfidence) || c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence must be in [0, 1], got %v", ErrInvalidConfig, c.MinConfidence)
	}
	if isBad(c.MinLift) || c.MinLift < 0 {
		return fmt.Errorf("%w: min_lift must be non-negative, got %v", ErrInvalidConfig, c.MinLift)
	}
	return nil
}

// ALSConfig contains hyperparameters for Alternating Least Squares.
type ALSConfig struct {
	// Factors is the latent factor dimensionality.
	// Default: 8.
	Factors int `json:"factors"`

	// Regularization is added to every diagonal entry of the Gram matrix.
	// Must be non-negative. Default: 0.1.
	Regularization float64 `json:"regularization"`

	// Iterations is the number of alternating passes. Zero returns the
	// seeded initial factors. Default: 10.
	Iterations int `json:"iterations"`

	// NumWorkers bounds the goroutines solving rows within one half
	// iteration. Zero uses GOMAXPROCS. Results do not depend on it.
	NumWorkers int `json:"num_workers"`

	// Seed initializes the factor RNG. Default: 42.
	Seed int64 `json:"seed"`
}

// DefaultALSConfig returns default ALS hyperparameters.
func DefaultALSConfig() ALSConfig {
	return ALSConfig{
		Factors:        8,
		Regularization: 0.1,
		Iterations:     10,
		NumWorkers:     0,
		Seed:           42,
	}
}

// Validate checks the ALS hyperparameters.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c ALSConfig) Validate() error {
	if c.Factors < 1 {
		return fmt.Errorf("%w: factors must be at least 1, got %d", ErrInvalidConfig, c.Factors)
	}
	if isBad(c.Regularization) || c.Regularization < 0 {
		return fmt.Errorf("%w: regularization must be non-negative, got %v", ErrInvalidConfig, c.Regularization)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: num_workers must be non-negative, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
