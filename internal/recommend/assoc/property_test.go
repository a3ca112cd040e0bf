// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package assoc

import (
	"math"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/tomtom215/crosssell/internal/recommend"
)

// toTransactions turns generated item indexes into non-empty baskets over a
// small alphabet so itemsets overlap heavily.
func toTransactions(raw [][]int) []recommend.Transaction {
	var txs []recommend.Transaction
	for i, basket := range raw {
		if len(basket) == 0 {
			continue
		}
		items := make([]string, 0, len(basket))
		for _, idx := range basket {
			items = append(items, string(rune('A'+idx)))
		}
		txs = append(txs, recommend.Transaction{ID: strconv.Itoa(i), Items: items})
	}
	return txs
}

// bruteForceCount counts transactions containing every item.
func bruteForceCount(txs []recommend.Transaction, items []string) int {
	n := 0
	for _, tx := range txs {
		has := make(map[string]bool, len(tx.Items))
		for _, it := range tx.Items {
			has[it] = true
		}
		all := true
		for _, it := range items {
			if !has[it] {
				all = false
				break
			}
		}
		if all {
			n++
		}
	}
	return n
}

func basketsGen() gopter.Gen {
	return gen.SliceOfN(16, gen.SliceOf(gen.IntRange(0, 5)))
}

func TestMiningProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("support equals a brute-force count", prop.ForAll(
		func(raw [][]int, minSupport float64) bool {
			txs := toTransactions(raw)
			result, err := Mine(txs, recommend.MiningConfig{MinSupport: minSupport})
			if err != nil {
				return false
			}
			for _, is := range result.Itemsets {
				if bruteForceCount(txs, is.Items) != is.Count {
					return false
				}
				if is.Count < result.MinSupportCount {
					return false
				}
			}
			return true
		},
		basketsGen(),
		gen.Float64Range(0.05, 1.0),
	))

	properties.Property("every frequent itemset is found", prop.ForAll(
		func(raw [][]int, minSupport float64) bool {
			txs := toTransactions(raw)
			result, err := Mine(txs, recommend.MiningConfig{MinSupport: minSupport})
			if err != nil {
				return false
			}
			if len(txs) == 0 {
				return len(result.Itemsets) == 0
			}
			// Enumerate every subset of the six-letter alphabet.
			for mask := 1; mask < 1<<6; mask++ {
				var items []string
				for b := 0; b < 6; b++ {
					if mask&(1<<b) != 0 {
						items = append(items, string(rune('A'+b)))
					}
				}
				_, found := result.Counts.Count(items...)
				frequent := bruteForceCount(txs, items) >= result.MinSupportCount
				if found != frequent {
					return false
				}
			}
			return true
		},
		basketsGen(),
		gen.Float64Range(0.05, 1.0),
	))

	properties.Property("downward closure", prop.ForAll(
		func(raw [][]int, minSupport float64) bool {
			result, err := Mine(toTransactions(raw), recommend.MiningConfig{MinSupport: minSupport})
			if err != nil {
				return false
			}
			for _, is := range result.Itemsets {
				n := len(is.Items)
				for mask := uint64(1); mask < uint64(1)<<uint(n)-1; mask++ {
					sub, _ := partition(is.Items, mask)
					count, ok := result.Counts.Count(sub...)
					if !ok || count < is.Count {
						return false
					}
				}
			}
			return true
		},
		basketsGen(),
		gen.Float64Range(0.05, 1.0),
	))

	properties.Property("rule arithmetic and thresholds", prop.ForAll(
		func(raw [][]int, minConfidence, minLift float64) bool {
			txs := toTransactions(raw)
			cfg := recommend.MiningConfig{MinSupport: 0.1, MinConfidence: minConfidence, MinLift: minLift}
			result, err := Mine(txs, cfg)
			if err != nil {
				return false
			}
			total := float64(len(txs))
			for _, r := range result.Rules {
				if r.Confidence < minConfidence || r.Lift < minLift {
					return false
				}
				lhs := float64(bruteForceCount(txs, r.Antecedent)) / total
				rhs := float64(bruteForceCount(txs, r.Consequent)) / total
				if math.Abs(r.Confidence*lhs-r.Support) > 1e-9 {
					return false
				}
				if math.Abs(r.Lift*rhs-r.Confidence) > 1e-9 {
					return false
				}
			}
			return true
		},
		basketsGen(),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 2),
	))

	properties.TestingRun(t)
}
