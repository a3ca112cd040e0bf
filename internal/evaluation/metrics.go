// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Package evaluation scores ranked recommendations against held-out
// purchases with the usual top-K retrieval metrics.
//
// All metrics return 0 for k <= 0 and for an empty relevant set. Mean
// metrics average over the users of the ground truth; a user with no
// recommendations contributes 0.
package evaluation

// ItemSet is a set of relevant item ids.
type ItemSet map[string]struct{}

// NewItemSet builds a set from ids.
func NewItemSet(ids ...string) ItemSet {
	s := make(ItemSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s ItemSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func topK(recommended []string, k int) []string {
	if k < len(recommended) {
		return recommended[:k]
	}
	return recommended
}

// PrecisionAtK is the share of the first k recommendations that are
// relevant. When fewer than k items were recommended the denominator is the
// number actually recommended.
func PrecisionAtK(recommended []string, relevant ItemSet, k int) float64 {
	if k <= 0 {
		return 0
	}
	top := topK(recommended, k)
	if len(top) == 0 {
		return 0
	}
	hits := 0
	for _, item := range top {
		if relevant.Has(item) {
			hits++
		}
	}
	return float64(hits) / float64(len(top))
}

// RecallAtK is the share of relevant items found in the first k
// recommendations.
func RecallAtK(recommended []string, relevant ItemSet, k int) float64 {
	if k <= 0 || len(relevant) == 0 {
		return 0
	}
	hits := 0
	for _, item := range topK(recommended, k) {
		if relevant.Has(item) {
			hits++
		}
	}
	return float64(hits) / float64(len(relevant))
}

// AveragePrecisionAtK averages the precision at each relevant position of
// the first k recommendations, normalised by the number of relevant items.
func AveragePrecisionAtK(recommended []string, relevant ItemSet, k int) float64 {
	if k <= 0 || len(relevant) == 0 {
		return 0
	}
	hits := 0
	sum := 0.0
	for i, item := range topK(recommended, k) {
		if relevant.Has(item) {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}
	if hits == 0 {
		return 0
	}
	return sum / float64(len(relevant))
}

// MetricFunc scores one user's ranking.
type MetricFunc func(recommended []string, relevant ItemSet, k int) float64

// MeanMetric averages metric over the users of groundTruth.
func MeanMetric(metric MetricFunc, recommendations map[string][]string, groundTruth map[string]ItemSet, k int) float64 {
	if len(groundTruth) == 0 {
		return 0
	}
	total := 0.0
	for user, relevant := range groundTruth {
		total += metric(recommendations[user], relevant, k)
	}
	return total / float64(len(groundTruth))
}

// MAPAtK is the mean average precision over groundTruth.
func MAPAtK(recommendations map[string][]string, groundTruth map[string]ItemSet, k int) float64 {
	return MeanMetric(AveragePrecisionAtK, recommendations, groundTruth, k)
}

// MeanPrecisionAtK is the mean precision over groundTruth.
func MeanPrecisionAtK(recommendations map[string][]string, groundTruth map[string]ItemSet, k int) float64 {
	return MeanMetric(PrecisionAtK, recommendations, groundTruth, k)
}

// MeanRecallAtK is the mean recall over groundTruth.
func MeanRecallAtK(recommendations map[string][]string, groundTruth map[string]ItemSet, k int) float64 {
	return MeanMetric(RecallAtK, recommendations, groundTruth, k)
}
