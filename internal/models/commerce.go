// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package models

// OrderLine is a single product line of a customer order.
//
// Lines sharing an OrderID form one basket. The same product may appear on
// several lines of an order in raw (bronze) data; cleansing collapses those.
type OrderLine struct {
	// OrderID groups lines into a basket.
	OrderID string `json:"order_id"`

	// UserID identifies the purchasing customer.
	UserID string `json:"user_id"`

	// ProductID identifies the purchased product.
	ProductID string `json:"product_id"`

	// Quantity is the number of units on this line.
	Quantity int `json:"quantity"`

	// UnitPrice is the price per unit at order time.
	UnitPrice float64 `json:"unit_price"`

	// OrderTS is the order timestamp as provided by the source system.
	OrderTS string `json:"order_ts"`

	// SalesChannel is the channel the order came through (web, store, app).
	SalesChannel string `json:"sales_channel"`
}

// Product is a catalog entry used to enrich recommendation output.
type Product struct {
	ProductID   string  `json:"product_id" validate:"catalogid,max=128"`
	Name        string  `json:"name" validate:"required,max=256"`
	Category    string  `json:"category" validate:"required,max=128"`
	Subcategory string  `json:"subcategory" validate:"max=128"`
	Brand       string  `json:"brand" validate:"max=128"`
	BasePrice   float64 `json:"base_price" validate:"gte=0"`
}

// Customer carries the customer attributes attached to user recommendations.
type Customer struct {
	UserID      string `json:"user_id"`
	Segment     string `json:"segment"`
	Region      string `json:"region"`
	LoyaltyTier string `json:"loyalty_tier"`
}

// ProductDetails is the product summary embedded in enriched rule rows.
// Fields are nil when the product is not in the catalog.
type ProductDetails struct {
	ProductID string  `json:"product_id"`
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Brand     *string `json:"brand"`
}

// NewProductDetails builds the details for productID, looking it up in catalog.
func NewProductDetails(productID string, catalog map[string]Product) ProductDetails {
	d := ProductDetails{ProductID: productID}
	if p, ok := catalog[productID]; ok {
		name, category, brand := p.Name, p.Category, p.Brand
		d.Name = &name
		d.Category = &category
		d.Brand = &brand
	}
	return d
}
