// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package assoc

import (
	"reflect"
	"testing"
)

func scenarioPaths() []weightedPath {
	return []weightedPath{
		{items: []string{"A", "B"}, weight: 1},
		{items: []string{"A", "B"}, weight: 1},
		{items: []string{"A", "C"}, weight: 1},
		{items: []string{"B", "C"}, weight: 1},
	}
}

func TestBuildTree_SharesPrefixes(t *testing.T) {
	tree := buildTree(scenarioPaths(), 1)

	// root, A, A>B, A>C, B, B>C
	if got := len(tree.nodes); got != 6 {
		t.Fatalf("node count = %d, want 6", got)
	}

	a, ok := tree.nodes[rootNode].children["A"]
	if !ok {
		t.Fatal("root has no A child")
	}
	if tree.nodes[a].count != 3 {
		t.Errorf("A count = %d, want 3", tree.nodes[a].count)
	}
	ab := tree.nodes[a].children["B"]
	if tree.nodes[ab].count != 2 {
		t.Errorf("A>B count = %d, want 2", tree.nodes[ab].count)
	}
	if tree.nodes[ab].parent != a {
		t.Errorf("A>B parent = %d, want %d", tree.nodes[ab].parent, a)
	}

	wantSupport := map[string]int{"A": 3, "B": 3, "C": 2}
	for item, want := range wantSupport {
		if got := tree.header[item].support; got != want {
			t.Errorf("header[%s].support = %d, want %d", item, got, want)
		}
	}
}

func TestBuildTree_SameItemChain(t *testing.T) {
	tree := buildTree(scenarioPaths(), 1)

	for _, item := range []string{"A", "B", "C"} {
		total := 0
		visited := 0
		for n := tree.header[item].head; n != noNode; n = tree.nodes[n].link {
			if tree.nodes[n].item != item {
				t.Errorf("chain of %s reaches node holding %s", item, tree.nodes[n].item)
			}
			total += tree.nodes[n].count
			visited++
			if n == tree.header[item].tail && tree.nodes[n].link != noNode {
				t.Errorf("tail of %s has a next link", item)
			}
		}
		if total != tree.header[item].support {
			t.Errorf("chain counts of %s sum to %d, header says %d", item, total, tree.header[item].support)
		}
		if visited == 0 {
			t.Errorf("empty chain for %s", item)
		}
	}

	// B appears under A and under the root.
	chainLen := 0
	for n := tree.header["B"].head; n != noNode; n = tree.nodes[n].link {
		chainLen++
	}
	if chainLen != 2 {
		t.Errorf("B chain length = %d, want 2", chainLen)
	}
}

func TestBuildTree_FiltersInfrequent(t *testing.T) {
	tree := buildTree(scenarioPaths(), 3)

	if _, ok := tree.header["C"]; ok {
		t.Error("C (support 2) kept at minCount 3")
	}
	if len(tree.header) != 2 {
		t.Errorf("header size = %d, want 2", len(tree.header))
	}
	for _, n := range tree.nodes[1:] {
		if n.item == "C" {
			t.Error("tree holds a node for infrequent item C")
		}
	}
}

func TestBuildTree_TieBreakIsLexical(t *testing.T) {
	// X and Y both have support 2; insertion order must not matter.
	paths := []weightedPath{
		{items: []string{"Y", "X"}, weight: 1},
		{items: []string{"X", "Y"}, weight: 1},
	}
	tree := buildTree(paths, 1)

	if len(tree.nodes[rootNode].children) != 1 {
		t.Fatalf("root children = %v, want a single shared branch", tree.nodes[rootNode].children)
	}
	x, ok := tree.nodes[rootNode].children["X"]
	if !ok {
		t.Fatal("shared branch does not start with X")
	}
	if tree.nodes[x].count != 2 {
		t.Errorf("X count = %d, want 2", tree.nodes[x].count)
	}
}

func TestBuildTree_Weights(t *testing.T) {
	tree := buildTree([]weightedPath{{items: []string{"A", "B"}, weight: 4}}, 4)
	if tree.header["A"].support != 4 || tree.header["B"].support != 4 {
		t.Errorf("weighted supports = A:%d B:%d, want 4", tree.header["A"].support, tree.header["B"].support)
	}
}

func TestPrefixPathAndConditionalBase(t *testing.T) {
	tree := buildTree(scenarioPaths(), 1)

	got := tree.conditionalBase("C")
	want := []weightedPath{
		{items: []string{"A"}, weight: 1},
		{items: []string{"B"}, weight: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("conditionalBase(C) = %+v, want %+v", got, want)
	}

	if base := tree.conditionalBase("A"); len(base) != 0 {
		t.Errorf("conditionalBase(A) = %+v, want empty", base)
	}
}

func TestItemsByAscendingSupport(t *testing.T) {
	tree := buildTree(scenarioPaths(), 1)
	got := tree.itemsByAscendingSupport()
	want := []string{"C", "A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("itemsByAscendingSupport() = %v, want %v", got, want)
	}
}

func TestBuildTree_Empty(t *testing.T) {
	tree := buildTree(nil, 1)
	if len(tree.header) != 0 || len(tree.nodes) != 1 {
		t.Errorf("empty tree has header %d nodes %d", len(tree.header), len(tree.nodes))
	}
}
