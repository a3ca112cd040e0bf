// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Package assoc mines frequent itemsets with FP-growth and derives
// association rules from them.
//
// # Data Structures
//
// The FP-tree is an arena: nodes live in one slice and refer to their parent
// and to the next node holding the same item by index. Node 0 is the root.
// The header table keeps, per frequent item, its support and the head and
// tail of its same-item chain so the chain is extended in O(1) during
// insertion and walked in O(chain) during mining.
//
// # Mining
//
// Items of a header table are mined from lowest to highest support, ties by
// item id. For each item the prefix paths of its nodes form a conditional
// pattern base; paths carry a weight instead of being repeated. A
// conditional tree is built from the base and mined recursively with the
// extended prefix. Results accumulate into an ItemsetCounts map passed down
// explicitly.
//
// # Keys
//
// Itemsets are keyed by their sorted items joined with KeySeparator. Item
// identifiers containing the separator are rejected by Mine.
package assoc
