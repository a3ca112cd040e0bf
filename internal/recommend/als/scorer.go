// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package als

import (
	"math"
	"sort"

	"github.com/tomtom215/crosssell/internal/recommend"
)

// RecommendForUser returns the k items with the highest dot product against
// the user's factors, best first. Equal scores keep item order.
//
// An unknown user, a factor set without items, or k <= 0 yields an empty
// list.
func RecommendForUser(fs *recommend.FactorSet, userID string, k int) []recommend.UserRecommendation {
	out := []recommend.UserRecommendation{}
	if fs == nil || k <= 0 || fs.IsEmpty() {
		return out
	}
	u, ok := fs.UserIndex[userID]
	if !ok {
		return out
	}

	user := fs.UserVector(u)
	for i, item := range fs.Items {
		out = append(out, recommend.UserRecommendation{
			UserID:    userID,
			ProductID: item,
			Score:     dot(user, fs.ItemVector(i)),
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// SimilarItems returns the k other items with the highest cosine similarity
// to itemID, best first. Equal scores keep item order.
//
// An unknown item, an empty factor set, or k <= 0 yields an empty list.
func SimilarItems(fs *recommend.FactorSet, itemID string, k int) []recommend.SimilarItem {
	out := []recommend.SimilarItem{}
	if fs == nil || k <= 0 || fs.NumItems() == 0 {
		return out
	}
	target, ok := fs.ItemIndex[itemID]
	if !ok {
		return out
	}

	vec := fs.ItemVector(target)
	for i, item := range fs.Items {
		if i == target {
			continue
		}
		out = append(out, recommend.SimilarItem{
			ProductID:        itemID,
			SimilarProductID: item,
			Score:            cosineSimilarity(vec, fs.ItemVector(i)),
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// cosineSimilarity returns 0 when either vector has zero norm.
func cosineSimilarity(a, b []float64) float64 {
	var normA, normB float64
	for i := range a {
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot(a, b) / (math.Sqrt(normA) * math.Sqrt(normB))
}
