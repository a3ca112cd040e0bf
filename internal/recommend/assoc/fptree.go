// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package assoc

import "sort"

// noNode marks an absent parent or same-item link.
const noNode = -1

// rootNode is the arena index of the tree root.
const rootNode = 0

type fpNode struct {
	item   string
	count  int
	parent int
	link   int

	// children maps item -> node index; allocated on first child.
	children map[string]int
}

type headerEntry struct {
	support int
	head    int
	tail    int
}

// fpTree is owned by a single mining call.
type fpTree struct {
	nodes  []fpNode
	header map[string]*headerEntry
}

// weightedPath is a basket, or a conditional prefix path, together with the
// number of times it occurs.
type weightedPath struct {
	items  []string
	weight int
}

// buildTree counts item support over paths, keeps the items reaching
// minCount, and inserts every path with its items ordered by descending
// support, ties by ascending item id.
//
// Paths must not repeat an item.
func buildTree(paths []weightedPath, minCount int) *fpTree {
	support := make(map[string]int)
	for _, p := range paths {
		for _, item := range p.items {
			support[item] += p.weight
		}
	}

	t := &fpTree{
		nodes:  []fpNode{{parent: noNode, link: noNode}},
		header: make(map[string]*headerEntry),
	}
	for item, count := range support {
		if count >= minCount {
			t.header[item] = &headerEntry{support: count, head: noNode, tail: noNode}
		}
	}
	if len(t.header) == 0 {
		return t
	}

	ordered := make([]string, 0, len(t.header))
	for _, p := range paths {
		ordered = ordered[:0]
		for _, item := range p.items {
			if _, ok := t.header[item]; ok {
				ordered = append(ordered, item)
			}
		}
		if len(ordered) == 0 {
			continue
		}
		sort.Slice(ordered, func(i, j int) bool {
			si, sj := t.header[ordered[i]].support, t.header[ordered[j]].support
			if si != sj {
				return si > sj
			}
			return ordered[i] < ordered[j]
		})
		t.insert(ordered, p.weight)
	}
	return t
}

// insert walks items from the root, creating missing children and adding
// weight to every node on the path.
func (t *fpTree) insert(items []string, weight int) {
	cur := rootNode
	for _, item := range items {
		child, ok := t.nodes[cur].children[item]
		if !ok {
			child = len(t.nodes)
			t.nodes = append(t.nodes, fpNode{item: item, parent: cur, link: noNode})
			if t.nodes[cur].children == nil {
				t.nodes[cur].children = make(map[string]int)
			}
			t.nodes[cur].children[item] = child
			t.linkHeader(item, child)
		}
		t.nodes[child].count += weight
		cur = child
	}
}

// linkHeader appends node to the same-item chain of item.
func (t *fpTree) linkHeader(item string, node int) {
	entry := t.header[item]
	if entry.head == noNode {
		entry.head = node
	} else {
		t.nodes[entry.tail].link = node
	}
	entry.tail = node
}

// prefixPath returns the items on the path from the root (excluded) down to
// the parent of node, root side first.
func (t *fpTree) prefixPath(node int) []string {
	var path []string
	for p := t.nodes[node].parent; p != rootNode && p != noNode; p = t.nodes[p].parent {
		path = append(path, t.nodes[p].item)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// conditionalBase collects the weighted prefix paths of every node holding
// item. Nodes directly under the root contribute nothing.
func (t *fpTree) conditionalBase(item string) []weightedPath {
	var base []weightedPath
	for n := t.header[item].head; n != noNode; n = t.nodes[n].link {
		if path := t.prefixPath(n); len(path) > 0 {
			base = append(base, weightedPath{items: path, weight: t.nodes[n].count})
		}
	}
	return base
}

// itemsByAscendingSupport returns header items, lowest support first, ties
// by item id.
func (t *fpTree) itemsByAscendingSupport() []string {
	items := make([]string, 0, len(t.header))
	for item := range t.header {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		si, sj := t.header[items[i]].support, t.header[items[j]].support
		if si != sj {
			return si < sj
		}
		return items[i] < items[j]
	})
	return items
}
