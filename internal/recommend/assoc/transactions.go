// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package assoc

import (
	"sort"

	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/recommend"
)

// BuildTransactions groups order lines into one basket per order.
//
// Items are deduplicated and sorted ascending; baskets are returned in
// ascending order id. Lines without an order or product id do not qualify,
// so an order made only of such lines is absent from the output.
func BuildTransactions(lines []models.OrderLine) []recommend.Transaction {
	baskets := make(map[string]map[string]struct{})
	for i := range lines {
		line := &lines[i]
		if line.OrderID == "" || line.ProductID == "" {
			continue
		}
		items, ok := baskets[line.OrderID]
		if !ok {
			items = make(map[string]struct{})
			baskets[line.OrderID] = items
		}
		items[line.ProductID] = struct{}{}
	}

	orderIDs := make([]string, 0, len(baskets))
	for id := range baskets {
		orderIDs = append(orderIDs, id)
	}
	sort.Strings(orderIDs)

	transactions := make([]recommend.Transaction, 0, len(orderIDs))
	for _, id := range orderIDs {
		set := baskets[id]
		items := make([]string, 0, len(set))
		for item := range set {
			items = append(items, item)
		}
		sort.Strings(items)
		transactions = append(transactions, recommend.Transaction{ID: id, Items: items})
	}
	return transactions
}
