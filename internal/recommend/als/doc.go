// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Package als fits user and item latent factors with Alternating Least
// Squares and scores recommendations from them.
//
// # Training
//
// Interactions are aggregated into a dense user-by-item quantity matrix with
// rows and columns assigned in ascending identifier order. Factors are
// seeded uniformly in [-0.1, 0.1) from a fixed seed, users first. Each
// iteration solves, for every user u,
//
//	(YᵀY + λI) x_u = Yᵀ r_u
//
// and then the symmetric system for every item against the freshly written
// user factors. Rows within one half are solved in parallel by a bounded
// set of workers; the result does not depend on the worker count.
//
// # Solver
//
// The linear systems are solved with Gauss-Jordan elimination and partial
// pivoting. A column whose best pivot is below 1e-9 in magnitude is skipped
// and the corresponding unknown keeps whatever value elimination left in
// the right-hand side. Skips never fail training; they are counted in
// TrainReport.SkippedPivots.
//
// # Scoring
//
// RecommendForUser ranks items by dot product with the user vector.
// SimilarItems ranks other items by cosine similarity. Both return an
// empty list for unknown identifiers.
package als
