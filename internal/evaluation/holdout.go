// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package evaluation

import (
	"sort"

	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/recommend"
	"github.com/tomtom215/crosssell/internal/recommend/als"
)

// Split is the result of HoldoutSplit.
type Split struct {
	Train   []models.OrderLine
	HeldOut map[string]ItemSet
}

type orderKey struct {
	ts string
	id string
}

// HoldoutSplit holds out each user's latest order. Orders are ranked by
// timestamp then order id. Users with a single order stay entirely in the
// training split and are absent from HeldOut. Training lines keep their
// input order.
func HoldoutSplit(lines []models.OrderLine) Split {
	latest := make(map[string]orderKey)
	orders := make(map[string]map[string]struct{})
	for _, l := range lines {
		if orders[l.UserID] == nil {
			orders[l.UserID] = make(map[string]struct{})
		}
		orders[l.UserID][l.OrderID] = struct{}{}

		k := orderKey{l.OrderTS, l.OrderID}
		if cur, ok := latest[l.UserID]; !ok || k.ts > cur.ts || (k.ts == cur.ts && k.id > cur.id) {
			latest[l.UserID] = k
		}
	}

	split := Split{Train: make([]models.OrderLine, 0, len(lines)), HeldOut: make(map[string]ItemSet)}
	for _, l := range lines {
		if len(orders[l.UserID]) < 2 || l.OrderID != latest[l.UserID].id {
			split.Train = append(split.Train, l)
			continue
		}
		if split.HeldOut[l.UserID] == nil {
			split.HeldOut[l.UserID] = make(ItemSet)
		}
		split.HeldOut[l.UserID][l.ProductID] = struct{}{}
	}
	return split
}

// Report summarises ranking quality at K.
type Report struct {
	K         int     `json:"k"`
	Users     int     `json:"users"`
	Precision float64 `json:"precision_at_k"`
	Recall    float64 `json:"recall_at_k"`
	MAP       float64 `json:"map_at_k"`
}

// Evaluate ranks the top k items for every held-out user with the factor
// set and scores them against the held-out purchases. Users unknown to the
// model get an empty ranking.
func Evaluate(fs *recommend.FactorSet, heldOut map[string]ItemSet, k int) Report {
	users := make([]string, 0, len(heldOut))
	for u := range heldOut {
		users = append(users, u)
	}
	sort.Strings(users)

	recs := make(map[string][]string, len(users))
	for _, u := range users {
		ranked := als.RecommendForUser(fs, u, k)
		ids := make([]string, len(ranked))
		for i, r := range ranked {
			ids[i] = r.ProductID
		}
		recs[u] = ids
	}

	return Report{
		K:         k,
		Users:     len(users),
		Precision: MeanPrecisionAtK(recs, heldOut, k),
		Recall:    MeanRecallAtK(recs, heldOut, k),
		MAP:       MAPAtK(recs, heldOut, k),
	}
}
