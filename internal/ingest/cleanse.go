// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package ingest

import (
	"strings"

	"github.com/tomtom215/crosssell/internal/models"
)

// UnknownValue replaces missing categorical attributes.
const UnknownValue = "unknown"

type orderProduct struct {
	orderID   string
	productID string
}

// CleanseOrders turns bronze order lines into silver lines.
//
// Only the first line of each (order, product) pair is considered; a later
// duplicate is dropped even when the first line was itself rejected.
// Lines missing a user, product or timestamp are dropped. Non-positive
// quantities become 1, negative prices become 0 and an empty sales channel
// becomes "unknown". Input order is preserved.
func CleanseOrders(lines []models.OrderLine) []models.OrderLine {
	seen := make(map[orderProduct]struct{}, len(lines))
	out := make([]models.OrderLine, 0, len(lines))

	for _, l := range lines {
		key := orderProduct{l.OrderID, l.ProductID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if l.UserID == "" || l.ProductID == "" || l.OrderTS == "" {
			continue
		}
		if l.Quantity <= 0 {
			l.Quantity = 1
		}
		if l.UnitPrice < 0 {
			l.UnitPrice = 0
		}
		if l.SalesChannel == "" {
			l.SalesChannel = UnknownValue
		}
		out = append(out, l)
	}
	return out
}

// CleanseProducts trims text fields, drops rows without an id and clamps
// negative prices to 0. When an id repeats, the last row wins but keeps the
// position of the first.
func CleanseProducts(products []models.Product) []models.Product {
	index := make(map[string]int, len(products))
	out := make([]models.Product, 0, len(products))

	for _, p := range products {
		p.ProductID = strings.TrimSpace(p.ProductID)
		if p.ProductID == "" {
			continue
		}
		p.Name = strings.TrimSpace(p.Name)
		p.Category = strings.TrimSpace(p.Category)
		p.Subcategory = strings.TrimSpace(p.Subcategory)
		p.Brand = strings.TrimSpace(p.Brand)
		if p.BasePrice < 0 {
			p.BasePrice = 0
		}

		if i, ok := index[p.ProductID]; ok {
			out[i] = p
			continue
		}
		index[p.ProductID] = len(out)
		out = append(out, p)
	}
	return out
}

// CleanseCustomers drops rows without a user id, keeps the first row per
// user and fills empty attributes with "unknown".
func CleanseCustomers(customers []models.Customer) []models.Customer {
	seen := make(map[string]struct{}, len(customers))
	out := make([]models.Customer, 0, len(customers))

	for _, c := range customers {
		c.UserID = strings.TrimSpace(c.UserID)
		if c.UserID == "" {
			continue
		}
		if _, dup := seen[c.UserID]; dup {
			continue
		}
		seen[c.UserID] = struct{}{}

		c.Segment = orUnknown(c.Segment)
		c.Region = orUnknown(c.Region)
		c.LoyaltyTier = orUnknown(c.LoyaltyTier)
		out = append(out, c)
	}
	return out
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return UnknownValue
	}
	return s
}

// ProductLookup indexes products by id.
func ProductLookup(products []models.Product) map[string]models.Product {
	m := make(map[string]models.Product, len(products))
	for _, p := range products {
		m[p.ProductID] = p
	}
	return m
}

// CustomerLookup indexes customers by user id.
func CustomerLookup(customers []models.Customer) map[string]models.Customer {
	m := make(map[string]models.Customer, len(customers))
	for _, c := range customers {
		m[c.UserID] = c
	}
	return m
}
