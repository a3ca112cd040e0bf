// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Package recommend defines the shared types and configuration of the two
// modeling branches of the cross-sell pipeline.
//
// # Architecture
//
// Order lines feed two independent branches:
//
//   - Association mining (package assoc): baskets are compacted into an
//     FP-tree, frequent itemsets are mined recursively from conditional
//     trees, and directional rules are derived and filtered by confidence
//     and lift.
//   - Latent factors (package als): baskets are aggregated into a dense
//     user-by-item quantity matrix and factorized with Alternating Least
//     Squares. The fitted FactorSet answers per-user top-K and item-to-item
//     similarity queries.
//
// The branches share no state and may run concurrently.
//
// # Design Principles
//
//   - Deterministic: fixed sort orders everywhere iteration order matters,
//     and a fixed seed for factor initialization
//   - Degenerate, not failing: empty input and unknown identifiers produce
//     empty results
//   - Fail fast on malformed input: invalid configuration or records return
//     errors wrapping ErrInvalidConfig or ErrInvalidInput
//
// # Usage
//
//	result, err := assoc.Mine(assoc.BuildTransactions(lines), recommend.DefaultMiningConfig())
//	factors, report, err := als.Train(ctx, als.InteractionsFromOrders(lines), recommend.DefaultALSConfig())
//	recs := als.RecommendForUser(factors, "U1", 5)
package recommend
