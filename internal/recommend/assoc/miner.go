// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package assoc

import (
	"sort"
	"strings"
)

// KeySeparator joins the sorted items of an itemset into its map key.
const KeySeparator = "\x1f"

// ItemsetCounts maps an itemset key to its support count.
type ItemsetCounts map[string]int

// ItemsetKey returns the key of the itemset made of items. The input is not
// modified.
func ItemsetKey(items ...string) string {
	if len(items) == 1 {
		return items[0]
	}
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	return strings.Join(sorted, KeySeparator)
}

// SplitKey returns the sorted items of an itemset key.
func SplitKey(key string) []string {
	return strings.Split(key, KeySeparator)
}

// Count returns the support count of the itemset made of items.
func (c ItemsetCounts) Count(items ...string) (int, bool) {
	n, ok := c[ItemsetKey(items...)]
	return n, ok
}

// FrequentItemsets returns every itemset contained in at least minCount
// transactions.
//
// Each transaction must list distinct items. minCount below 1 is treated
// as 1.
func FrequentItemsets(transactions [][]string, minCount int) ItemsetCounts {
	if minCount < 1 {
		minCount = 1
	}
	paths := make([]weightedPath, 0, len(transactions))
	for _, items := range transactions {
		paths = append(paths, weightedPath{items: items, weight: 1})
	}

	tree := buildTree(paths, minCount)
	out := make(ItemsetCounts)
	mineTree(tree, nil, minCount, out)

	// Singletons come straight from the global header table.
	for item, entry := range tree.header {
		out[item] = entry.support
	}
	return out
}

// mineTree emits prefix+item for every header item of tree and recurses
// into the conditional tree of each.
func mineTree(tree *fpTree, prefix []string, minCount int, out ItemsetCounts) {
	for _, item := range tree.itemsByAscendingSupport() {
		itemset := make([]string, len(prefix)+1)
		copy(itemset, prefix)
		itemset[len(prefix)] = item
		out[ItemsetKey(itemset...)] = tree.header[item].support

		base := tree.conditionalBase(item)
		if len(base) == 0 {
			continue
		}
		cond := buildTree(base, minCount)
		if len(cond.header) > 0 {
			mineTree(cond, itemset, minCount, out)
		}
	}
}
