// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package config

import (
	"errors"
	"fmt"

	"github.com/tomtom215/crosssell/internal/validation"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks struct constraints and then the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, verr.Error())
	}
	if err := c.Database.validate(); err != nil {
		return err
	}
	if err := c.Catalog.validate(); err != nil {
		return err
	}
	if c.Pipeline.Interval < 0 || c.Pipeline.Timeout < 0 {
		return fmt.Errorf("%w: pipeline interval and timeout must be non-negative", ErrInvalidConfig)
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("%w: rate_limit_window must be positive when rate limiting is enabled", ErrInvalidConfig)
	}
	if c.Server.CacheSize > 0 && c.Server.CacheTTL < 0 {
		return fmt.Errorf("%w: cache_ttl must be non-negative", ErrInvalidConfig)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.Enabled && d.Path == "" {
		return fmt.Errorf("%w: database.path is required when the warehouse is enabled", ErrInvalidConfig)
	}
	return nil
}

func (c *CatalogConfig) validate() error {
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("%w: catalog.path is required unless catalog.in_memory is set", ErrInvalidConfig)
	}
	return nil
}
