// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package als

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/recommend"
)

// InteractionMatrix is a dense users x items grid of accumulated quantities,
// stored row-major.
type InteractionMatrix struct {
	Rows   int
	Cols   int
	Values []float64

	// Users and Items list identifiers by row and column.
	Users []string
	Items []string

	UserIndex map[string]int
	ItemIndex map[string]int
}

// At returns the quantity for user row u and item column i.
func (m *InteractionMatrix) At(u, i int) float64 {
	return m.Values[u*m.Cols+i]
}

// Row returns the quantities of user row u. The slice aliases the matrix.
func (m *InteractionMatrix) Row(u int) []float64 {
	return m.Values[u*m.Cols : (u+1)*m.Cols]
}

// BuildInteractionMatrix aggregates interactions into a dense matrix.
// Quantities for a repeated user/item pair add up.
//
// An interaction with an empty identifier, or a negative or non-finite
// quantity, fails with recommend.ErrInvalidInput.
func BuildInteractionMatrix(interactions []recommend.Interaction) (*InteractionMatrix, error) {
	users := make(map[string]struct{})
	items := make(map[string]struct{})
	for i := range interactions {
		in := &interactions[i]
		if in.UserID == "" || in.ItemID == "" {
			return nil, fmt.Errorf("%w: interaction %d has an empty user or item id", recommend.ErrInvalidInput, i)
		}
		if math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) || in.Quantity < 0 {
			return nil, fmt.Errorf("%w: interaction %s/%s has quantity %v",
				recommend.ErrInvalidInput, in.UserID, in.ItemID, in.Quantity)
		}
		users[in.UserID] = struct{}{}
		items[in.ItemID] = struct{}{}
	}

	m := &InteractionMatrix{}
	m.Users, m.UserIndex = sortedIndex(users)
	m.Items, m.ItemIndex = sortedIndex(items)
	m.Rows = len(m.Users)
	m.Cols = len(m.Items)
	m.Values = make([]float64, m.Rows*m.Cols)

	for i := range interactions {
		in := &interactions[i]
		m.Values[m.UserIndex[in.UserID]*m.Cols+m.ItemIndex[in.ItemID]] += in.Quantity
	}
	return m, nil
}

func sortedIndex(set map[string]struct{}) ([]string, map[string]int) {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return ids, index
}

// InteractionsFromOrders maps order lines to interactions weighted by
// quantity. Lines without a user or product id are skipped.
func InteractionsFromOrders(lines []models.OrderLine) []recommend.Interaction {
	out := make([]recommend.Interaction, 0, len(lines))
	for i := range lines {
		line := &lines[i]
		if line.UserID == "" || line.ProductID == "" {
			continue
		}
		out = append(out, recommend.Interaction{
			UserID:   line.UserID,
			ItemID:   line.ProductID,
			Quantity: float64(line.Quantity),
		})
	}
	return out
}
