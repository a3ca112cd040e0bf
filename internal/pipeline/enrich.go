// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package pipeline

import (
	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/recommend"
	"github.com/tomtom215/crosssell/internal/recommend/als"
)

func details(ids []string, catalog map[string]models.Product) []models.ProductDetails {
	out := make([]models.ProductDetails, len(ids))
	for i, id := range ids {
		out[i] = models.NewProductDetails(id, catalog)
	}
	return out
}

// EnrichRules attaches catalog details to both sides of every rule,
// keeping rule order.
func EnrichRules(rules []recommend.Rule, catalog map[string]models.Product) []models.RuleRow {
	rows := make([]models.RuleRow, len(rules))
	for i := range rules {
		r := &rules[i]
		rows[i] = models.RuleRow{
			LHS:        r.Antecedent,
			RHS:        r.Consequent,
			Support:    r.Support,
			Confidence: r.Confidence,
			Lift:       r.Lift,
			LHSDetails: details(r.Antecedent, catalog),
			RHSDetails: details(r.Consequent, catalog),
		}
	}
	return rows
}

// SimilarityRows returns the k items most similar to item, enriched from
// catalog. An unknown item yields an empty slice.
func SimilarityRows(fs *recommend.FactorSet, item string, k int, catalog map[string]models.Product) []models.SimilarityRow {
	similar := als.SimilarItems(fs, item, k)
	rows := make([]models.SimilarityRow, 0, len(similar))
	for _, s := range similar {
		row := models.SimilarityRow{
			ProductID:        s.ProductID,
			SimilarProductID: s.SimilarProductID,
			Score:            s.Score,
		}
		if p, ok := catalog[s.ProductID]; ok {
			row.WithProduct(p)
		}
		if p, ok := catalog[s.SimilarProductID]; ok {
			row.WithSimilarProduct(p)
		}
		rows = append(rows, row)
	}
	return rows
}

// RecommendationRows returns the top k products for user, enriched from
// catalog and, when customer is non-nil, with its attributes. An unknown
// user yields an empty slice.
func RecommendationRows(
	fs *recommend.FactorSet,
	user string,
	k int,
	catalog map[string]models.Product,
	customer *models.Customer,
) []models.RecommendationRow {
	recs := als.RecommendForUser(fs, user, k)
	rows := make([]models.RecommendationRow, 0, len(recs))
	for _, r := range recs {
		row := models.RecommendationRow{UserID: r.UserID, ProductID: r.ProductID, Score: r.Score}
		if p, ok := catalog[r.ProductID]; ok {
			row.WithProduct(p)
		}
		if customer != nil {
			row.WithCustomer(*customer)
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildItemSimilarity lists the k most similar items for every item of fs,
// walking items in ascending id order.
func BuildItemSimilarity(fs *recommend.FactorSet, k int, catalog map[string]models.Product) []models.SimilarityRow {
	rows := []models.SimilarityRow{}
	if fs == nil {
		return rows
	}
	for _, item := range fs.Items {
		rows = append(rows, SimilarityRows(fs, item, k, catalog)...)
	}
	return rows
}

// BuildUserRecommendations lists the top k products for every user of fs,
// walking users in ascending id order.
func BuildUserRecommendations(
	fs *recommend.FactorSet,
	k int,
	catalog map[string]models.Product,
	customers map[string]models.Customer,
) []models.RecommendationRow {
	rows := []models.RecommendationRow{}
	if fs == nil {
		return rows
	}
	for _, user := range fs.Users {
		var customer *models.Customer
		if c, ok := customers[user]; ok {
			customer = &c
		}
		rows = append(rows, RecommendationRows(fs, user, k, catalog, customer)...)
	}
	return rows
}
