// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package models

// RuleRow is one row of the assoc_rules gold table: an association rule
// plus catalog details for both sides.
type RuleRow struct {
	LHS        []string         `json:"lhs"`
	RHS        []string         `json:"rhs"`
	Support    float64          `json:"support"`
	Confidence float64          `json:"confidence"`
	Lift       float64          `json:"lift"`
	LHSDetails []ProductDetails `json:"lhs_details"`
	RHSDetails []ProductDetails `json:"rhs_details"`
}

// SimilarityRow is one row of the item_similarity gold table. Product
// attributes are present only for products found in the catalog.
type SimilarityRow struct {
	ProductID        string  `json:"product_id"`
	SimilarProductID string  `json:"similar_product_id"`
	Score            float64 `json:"score"`

	ProductName            *string `json:"product_name,omitempty"`
	ProductCategory        *string `json:"product_category,omitempty"`
	ProductBrand           *string `json:"product_brand,omitempty"`
	SimilarProductName     *string `json:"similar_product_name,omitempty"`
	SimilarProductCategory *string `json:"similar_product_category,omitempty"`
	SimilarProductBrand    *string `json:"similar_product_brand,omitempty"`
}

// RecommendationRow is one row of the user_recs gold table. Product and
// customer attributes are present only when known.
type RecommendationRow struct {
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Score     float64 `json:"score"`

	ProductName     *string `json:"product_name,omitempty"`
	ProductCategory *string `json:"product_category,omitempty"`
	ProductBrand    *string `json:"product_brand,omitempty"`
	UserSegment     *string `json:"user_segment,omitempty"`
	UserRegion      *string `json:"user_region,omitempty"`
	LoyaltyTier     *string `json:"loyalty_tier,omitempty"`
}

// strPtr returns a pointer to a copy of s.
func strPtr(s string) *string { return &s }

// WithProduct fills the base product attributes from p.
func (r *SimilarityRow) WithProduct(p Product) {
	r.ProductName, r.ProductCategory, r.ProductBrand = strPtr(p.Name), strPtr(p.Category), strPtr(p.Brand)
}

// WithSimilarProduct fills the similar product attributes from p.
func (r *SimilarityRow) WithSimilarProduct(p Product) {
	r.SimilarProductName, r.SimilarProductCategory, r.SimilarProductBrand = strPtr(p.Name), strPtr(p.Category), strPtr(p.Brand)
}

// WithProduct fills the recommended product attributes from p.
func (r *RecommendationRow) WithProduct(p Product) {
	r.ProductName, r.ProductCategory, r.ProductBrand = strPtr(p.Name), strPtr(p.Category), strPtr(p.Brand)
}

// WithCustomer fills the customer attributes from c.
func (r *RecommendationRow) WithCustomer(c Customer) {
	r.UserSegment, r.UserRegion, r.LoyaltyTier = strPtr(c.Segment), strPtr(c.Region), strPtr(c.LoyaltyTier)
}
