// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package assoc

import (
	"slices"
	"sort"

	"github.com/tomtom215/crosssell/internal/recommend"
)

// GenerateRules derives every rule lhs -> rhs where lhs and rhs partition a
// frequent itemset of two or more items.
//
// Rules whose antecedent or consequent support is unknown, or whose
// confidence or lift is below the thresholds, are discarded. The result is
// ordered by confidence descending, then support descending, then
// antecedent and consequent ascending. A zero transaction count yields no
// rules.
func GenerateRules(counts ItemsetCounts, transactionCount int, minConfidence, minLift float64) []recommend.Rule {
	if transactionCount <= 0 || len(counts) == 0 {
		return nil
	}

	total := float64(transactionCount)
	support := make(map[string]float64, len(counts))
	for key, n := range counts {
		support[key] = float64(n) / total
	}

	var rules []recommend.Rule
	for key, itemsetSupport := range support {
		items := SplitKey(key)
		n := len(items)
		if n < 2 {
			continue
		}
		// Downward closure means all 2^n-1 subsets were mined already, so
		// n is far below the mask width in practice.
		full := uint64(1)<<uint(n) - 1
		for mask := uint64(1); mask < full; mask++ {
			lhs, rhs := partition(items, mask)
			lhsSupport, ok := support[ItemsetKey(lhs...)]
			if !ok || lhsSupport == 0 {
				continue
			}
			rhsSupport, ok := support[ItemsetKey(rhs...)]
			if !ok || rhsSupport == 0 {
				continue
			}
			confidence := itemsetSupport / lhsSupport
			if confidence < minConfidence {
				continue
			}
			lift := confidence / rhsSupport
			if lift < minLift {
				continue
			}
			rules = append(rules, recommend.Rule{
				Antecedent: lhs,
				Consequent: rhs,
				Support:    itemsetSupport,
				Confidence: confidence,
				Lift:       lift,
			})
		}
	}

	SortRules(rules)
	return rules
}

// partition splits sorted items into the members selected by mask and the
// rest. Both halves stay sorted.
func partition(items []string, mask uint64) (in, out []string) {
	for i, item := range items {
		if mask&(1<<uint(i)) != 0 {
			in = append(in, item)
		} else {
			out = append(out, item)
		}
	}
	return in, out
}

// SortRules orders rules by confidence desc, support desc, antecedent asc,
// consequent asc.
func SortRules(rules []recommend.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := &rules[i], &rules[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		if c := slices.Compare(a.Antecedent, b.Antecedent); c != 0 {
			return c < 0
		}
		return slices.Compare(a.Consequent, b.Consequent) < 0
	})
}
