// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package recommend

// Transaction is one basket: an order identifier and the distinct products
// bought in that order, in ascending lexical order.
type Transaction struct {
	// ID is the order identifier.
	ID string `json:"id"`

	// Items holds distinct product identifiers sorted ascending.
	Items []string `json:"items"`
}

// Itemset is a frequent itemset with its support.
type Itemset struct {
	// Items holds the product identifiers sorted ascending.
	Items []string `json:"itemset"`

	// Count is the number of transactions containing every item.
	Count int `json:"count"`

	// Support is Count divided by the number of transactions.
	Support float64 `json:"support"`
}

// Rule is a directional association rule Antecedent -> Consequent.
//
// Antecedent and Consequent partition a frequent itemset; both are sorted.
type Rule struct {
	Antecedent []string `json:"lhs"`
	Consequent []string `json:"rhs"`

	// Support is the itemset support fraction.
	Support float64 `json:"support"`

	// Confidence is itemset support divided by antecedent support.
	Confidence float64 `json:"confidence"`

	// Lift is Confidence divided by consequent support.
	Lift float64 `json:"lift"`
}

// Interaction is an aggregated user-item purchase signal.
type Interaction struct {
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`

	// Quantity is the purchased quantity. Repeated interactions for the
	// same pair accumulate.
	Quantity float64 `json:"quantity"`
}

// FactorSet holds the latent factors produced by one ALS training run.
//
// UserFactors and ItemFactors are row-major: row r occupies
// [r*Factors, (r+1)*Factors). Users and Items list identifiers in row order
// (ascending lexical), and UserIndex/ItemIndex invert them.
//
// A FactorSet is read-only once returned by the trainer and safe for
// concurrent queries.
type FactorSet struct {
	Factors     int            `json:"factors"`
	UserFactors []float64      `json:"user_factors"`
	ItemFactors []float64      `json:"item_factors"`
	Users       []string       `json:"users"`
	Items       []string       `json:"items"`
	UserIndex   map[string]int `json:"-"`
	ItemIndex   map[string]int `json:"-"`
}

// NumUsers returns the number of user rows.
func (f *FactorSet) NumUsers() int {
	if f == nil || f.Factors == 0 {
		return 0
	}
	return len(f.UserFactors) / f.Factors
}

// NumItems returns the number of item rows.
func (f *FactorSet) NumItems() int {
	if f == nil || f.Factors == 0 {
		return 0
	}
	return len(f.ItemFactors) / f.Factors
}

// IsEmpty reports whether the set has no user or no item factors.
func (f *FactorSet) IsEmpty() bool {
	return f.NumUsers() == 0 || f.NumItems() == 0
}

// UserVector returns the factor row for user row u.
// The slice aliases the underlying matrix and must not be modified.
func (f *FactorSet) UserVector(u int) []float64 {
	return f.UserFactors[u*f.Factors : (u+1)*f.Factors]
}

// ItemVector returns the factor row for item row i.
// The slice aliases the underlying matrix and must not be modified.
func (f *FactorSet) ItemVector(i int) []float64 {
	return f.ItemFactors[i*f.Factors : (i+1)*f.Factors]
}

// UserRecommendation is one scored product for a user.
type UserRecommendation struct {
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Score     float64 `json:"score"`
}

// SimilarItem is one product similar to a source product.
type SimilarItem struct {
	ProductID        string  `json:"product_id"`
	SimilarProductID string  `json:"similar_product_id"`
	Score            float64 `json:"score"`
}
