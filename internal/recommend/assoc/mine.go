// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package assoc

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/tomtom215/crosssell/internal/recommend"
)

// MiningResult is the output of one Mine call.
type MiningResult struct {
	// TransactionCount is the number of baskets mined.
	TransactionCount int `json:"transaction_count"`

	// MinSupportCount is the absolute support threshold that was applied.
	MinSupportCount int `json:"min_support_count"`

	// Itemsets are ordered by size, then element-wise by item id.
	Itemsets []recommend.Itemset `json:"itemsets"`

	// Rules are ordered as by SortRules.
	Rules []recommend.Rule `json:"rules"`

	// Counts holds the raw itemset support counts keyed by ItemsetKey.
	Counts ItemsetCounts `json:"-"`
}

// MinSupportCount converts a support fraction into a transaction count by
// flooring, never returning less than 1.
func MinSupportCount(fraction float64, transactionCount int) int {
	n := int(math.Floor(fraction * float64(transactionCount)))
	if n < 1 {
		return 1
	}
	return n
}

// Mine runs FP-growth over transactions and derives association rules.
//
// A transaction with no items, or with an empty item id or one containing
// KeySeparator, fails with recommend.ErrInvalidInput. Duplicate items within
// a transaction count once. No transactions yields an empty result.
func Mine(transactions []recommend.Transaction, cfg recommend.MiningConfig) (*MiningResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baskets := make([][]string, 0, len(transactions))
	for i := range transactions {
		items, err := normalizeBasket(&transactions[i])
		if err != nil {
			return nil, err
		}
		baskets = append(baskets, items)
	}

	result := &MiningResult{
		TransactionCount: len(baskets),
		Itemsets:         []recommend.Itemset{},
		Rules:            []recommend.Rule{},
		Counts:           ItemsetCounts{},
	}
	if len(baskets) == 0 {
		return result, nil
	}

	result.MinSupportCount = MinSupportCount(cfg.MinSupport, len(baskets))
	result.Counts = FrequentItemsets(baskets, result.MinSupportCount)
	result.Itemsets = itemsetList(result.Counts, len(baskets))
	if rules := GenerateRules(result.Counts, len(baskets), cfg.MinConfidence, cfg.MinLift); rules != nil {
		result.Rules = rules
	}
	return result, nil
}

func normalizeBasket(tx *recommend.Transaction) ([]string, error) {
	if len(tx.Items) == 0 {
		return nil, fmt.Errorf("%w: transaction %q has no items", recommend.ErrInvalidInput, tx.ID)
	}
	seen := make(map[string]struct{}, len(tx.Items))
	items := make([]string, 0, len(tx.Items))
	for _, item := range tx.Items {
		if item == "" {
			return nil, fmt.Errorf("%w: transaction %q has an empty item id", recommend.ErrInvalidInput, tx.ID)
		}
		if strings.Contains(item, KeySeparator) {
			return nil, fmt.Errorf("%w: item id %q in transaction %q contains a reserved separator",
				recommend.ErrInvalidInput, item, tx.ID)
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

func itemsetList(counts ItemsetCounts, transactionCount int) []recommend.Itemset {
	list := make([]recommend.Itemset, 0, len(counts))
	for key, n := range counts {
		list = append(list, recommend.Itemset{
			Items:   SplitKey(key),
			Count:   n,
			Support: float64(n) / float64(transactionCount),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if len(list[i].Items) != len(list[j].Items) {
			return len(list[i].Items) < len(list[j].Items)
		}
		return slices.Compare(list[i].Items, list[j].Items) < 0
	})
	return list
}

// TopRulesForItem returns up to k rules whose antecedent contains item,
// preserving the order of rules. k <= 0 returns no rules.
func TopRulesForItem(rules []recommend.Rule, item string, k int) []recommend.Rule {
	out := []recommend.Rule{}
	if k <= 0 {
		return out
	}
	for i := range rules {
		if slices.Contains(rules[i].Antecedent, item) {
			out = append(out, rules[i])
			if len(out) == k {
				break
			}
		}
	}
	return out
}

// FilterItemsets returns the itemsets with at least minSize items.
func FilterItemsets(itemsets []recommend.Itemset, minSize int) []recommend.Itemset {
	out := make([]recommend.Itemset, 0, len(itemsets))
	for i := range itemsets {
		if len(itemsets[i].Items) >= minSize {
			out = append(out, itemsets[i])
		}
	}
	return out
}
