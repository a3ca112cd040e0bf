// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package assoc

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/recommend"
)

const epsilon = 1e-9

func scenarioTransactions() []recommend.Transaction {
	return []recommend.Transaction{
		{ID: "1", Items: []string{"A", "B"}},
		{ID: "2", Items: []string{"A", "B"}},
		{ID: "3", Items: []string{"A", "C"}},
		{ID: "4", Items: []string{"B", "C"}},
	}
}

func findRule(rules []recommend.Rule, lhs, rhs []string) (recommend.Rule, bool) {
	for _, r := range rules {
		if reflect.DeepEqual(r.Antecedent, lhs) && reflect.DeepEqual(r.Consequent, rhs) {
			return r, true
		}
	}
	return recommend.Rule{}, false
}

func TestBuildTransactions(t *testing.T) {
	lines := []models.OrderLine{
		{OrderID: "O2", ProductID: "P3"},
		{OrderID: "O1", ProductID: "P2"},
		{OrderID: "O1", ProductID: "P1"},
		{OrderID: "O1", ProductID: "P2"},
		{OrderID: "O3", ProductID: ""},
		{OrderID: "", ProductID: "P9"},
	}

	got := BuildTransactions(lines)
	want := []recommend.Transaction{
		{ID: "O1", Items: []string{"P1", "P2"}},
		{ID: "O2", Items: []string{"P3"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildTransactions() = %+v, want %+v", got, want)
	}

	if got := BuildTransactions(nil); len(got) != 0 {
		t.Errorf("BuildTransactions(nil) = %+v, want empty", got)
	}
}

func TestMinSupportCount(t *testing.T) {
	tests := []struct {
		fraction float64
		n        int
		want     int
	}{
		{0.4, 4, 1},
		{0.5, 4, 2},
		{0.1, 5, 1},
		{0.01, 10, 1},
		{1.0, 7, 7},
		{0.25, 0, 1},
	}
	for _, tt := range tests {
		if got := MinSupportCount(tt.fraction, tt.n); got != tt.want {
			t.Errorf("MinSupportCount(%v, %d) = %d, want %d", tt.fraction, tt.n, got, tt.want)
		}
	}
}

func TestMine_Scenario(t *testing.T) {
	cfg := recommend.MiningConfig{MinSupport: 0.4, MinConfidence: 0, MinLift: 0}

	result, err := Mine(scenarioTransactions(), cfg)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if result.MinSupportCount != 1 {
		t.Errorf("MinSupportCount = %d, want 1", result.MinSupportCount)
	}

	counts := map[string]int{"A": 3, "B": 3, "C": 2}
	for item, want := range counts {
		if got, ok := result.Counts.Count(item); !ok || got != want {
			t.Errorf("count(%s) = %d,%v want %d", item, got, ok, want)
		}
	}
	if got, ok := result.Counts.Count("B", "A"); !ok || got != 2 {
		t.Errorf("count({A,B}) = %d,%v want 2", got, ok)
	}
	if _, ok := result.Counts.Count("A", "B", "C"); ok {
		t.Error("{A,B,C} occurs in no basket but was mined")
	}

	rule, ok := findRule(result.Rules, []string{"A"}, []string{"B"})
	if !ok {
		t.Fatal("rule A -> B missing")
	}
	if math.Abs(rule.Support-0.5) > epsilon {
		t.Errorf("A -> B support = %v, want 0.5", rule.Support)
	}
	// A is in three baskets, two of which also hold B.
	if math.Abs(rule.Confidence-2.0/3.0) > epsilon {
		t.Errorf("A -> B confidence = %v, want 2/3", rule.Confidence)
	}
	if math.Abs(rule.Lift-(2.0/3.0)/0.75) > epsilon {
		t.Errorf("A -> B lift = %v, want %v", rule.Lift, (2.0/3.0)/0.75)
	}
}

func TestMine_RuleOrdering(t *testing.T) {
	cfg := recommend.MiningConfig{MinSupport: 0.25, MinConfidence: 0, MinLift: 0}
	result, err := Mine(scenarioTransactions(), cfg)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	want := [][2]string{
		{"A", "B"}, {"B", "A"}, {"C", "A"}, {"C", "B"}, {"A", "C"}, {"B", "C"},
	}
	if len(result.Rules) != len(want) {
		t.Fatalf("got %d rules, want %d: %+v", len(result.Rules), len(want), result.Rules)
	}
	for i, w := range want {
		r := result.Rules[i]
		if r.Antecedent[0] != w[0] || r.Consequent[0] != w[1] {
			t.Errorf("rule %d = %v -> %v, want %s -> %s", i, r.Antecedent, r.Consequent, w[0], w[1])
		}
	}
}

func TestMine_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		cfg       recommend.MiningConfig
		wantRules int
	}{
		{name: "defaults drop negatively associated pairs", cfg: recommend.MiningConfig{MinSupport: 0.4, MinConfidence: 0.3, MinLift: 1.0}, wantRules: 0},
		{name: "confidence half", cfg: recommend.MiningConfig{MinSupport: 0.25, MinConfidence: 0.5, MinLift: 0}, wantRules: 4},
		{name: "support above every pair", cfg: recommend.MiningConfig{MinSupport: 0.75, MinConfidence: 0, MinLift: 0}, wantRules: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Mine(scenarioTransactions(), tt.cfg)
			if err != nil {
				t.Fatalf("Mine() error = %v", err)
			}
			if len(result.Rules) != tt.wantRules {
				t.Errorf("got %d rules, want %d", len(result.Rules), tt.wantRules)
			}
			for _, r := range result.Rules {
				if r.Confidence < tt.cfg.MinConfidence || r.Lift < tt.cfg.MinLift {
					t.Errorf("rule %+v violates thresholds", r)
				}
			}
		})
	}
}

func TestMine_ItemsetOrder(t *testing.T) {
	result, err := Mine(scenarioTransactions(), recommend.MiningConfig{MinSupport: 0.25})
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	var got [][]string
	for _, is := range result.Itemsets {
		got = append(got, is.Items)
	}
	want := [][]string{{"A"}, {"B"}, {"C"}, {"A", "B"}, {"A", "C"}, {"B", "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("itemsets = %v, want %v", got, want)
	}
	if math.Abs(result.Itemsets[0].Support-0.75) > epsilon {
		t.Errorf("support(A) = %v, want 0.75", result.Itemsets[0].Support)
	}

	if got := FilterItemsets(result.Itemsets, 2); len(got) != 3 {
		t.Errorf("FilterItemsets(min 2) = %d itemsets, want 3", len(got))
	}
}

func TestMine_Empty(t *testing.T) {
	result, err := Mine(nil, recommend.DefaultMiningConfig())
	if err != nil {
		t.Fatalf("Mine(nil) error = %v", err)
	}
	if result.TransactionCount != 0 || len(result.Itemsets) != 0 || len(result.Rules) != 0 {
		t.Errorf("Mine(nil) = %+v, want empty", result)
	}
	if result.Rules == nil || result.Itemsets == nil {
		t.Error("empty result should carry non-nil slices")
	}
}

func TestMine_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		txs     []recommend.Transaction
		cfg     recommend.MiningConfig
		wantErr error
	}{
		{
			name:    "basket without items",
			txs:     []recommend.Transaction{{ID: "1"}},
			cfg:     recommend.DefaultMiningConfig(),
			wantErr: recommend.ErrInvalidInput,
		},
		{
			name:    "empty item id",
			txs:     []recommend.Transaction{{ID: "1", Items: []string{"A", ""}}},
			cfg:     recommend.DefaultMiningConfig(),
			wantErr: recommend.ErrInvalidInput,
		},
		{
			name:    "reserved separator",
			txs:     []recommend.Transaction{{ID: "1", Items: []string{"A" + KeySeparator + "B"}}},
			cfg:     recommend.DefaultMiningConfig(),
			wantErr: recommend.ErrInvalidInput,
		},
		{
			name:    "bad support",
			txs:     scenarioTransactions(),
			cfg:     recommend.MiningConfig{MinSupport: 0},
			wantErr: recommend.ErrInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Mine(tt.txs, tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Mine() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMine_DuplicateItemsCountOnce(t *testing.T) {
	txs := []recommend.Transaction{
		{ID: "1", Items: []string{"A", "A", "B"}},
		{ID: "2", Items: []string{"A"}},
	}
	result, err := Mine(txs, recommend.MiningConfig{MinSupport: 0.5})
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if got, _ := result.Counts.Count("A"); got != 2 {
		t.Errorf("count(A) = %d, want 2", got)
	}
}

func TestTopRulesForItem(t *testing.T) {
	result, err := Mine(scenarioTransactions(), recommend.MiningConfig{MinSupport: 0.25})
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	got := TopRulesForItem(result.Rules, "A", 5)
	if len(got) != 2 {
		t.Fatalf("rules for A = %d, want 2", len(got))
	}
	if got[0].Consequent[0] != "B" || got[1].Consequent[0] != "C" {
		t.Errorf("rules for A in wrong order: %+v", got)
	}
	if got := TopRulesForItem(result.Rules, "A", 1); len(got) != 1 {
		t.Errorf("k=1 returned %d rules", len(got))
	}
	if got := TopRulesForItem(result.Rules, "A", 0); len(got) != 0 {
		t.Errorf("k=0 returned %d rules", len(got))
	}
	if got := TopRulesForItem(result.Rules, "Z", 5); len(got) != 0 {
		t.Errorf("unknown item returned %d rules", len(got))
	}
}

func TestGenerateRules_ZeroTransactions(t *testing.T) {
	if rules := GenerateRules(ItemsetCounts{"A": 1}, 0, 0, 0); rules != nil {
		t.Errorf("GenerateRules(total 0) = %+v, want nil", rules)
	}
}

func TestGenerateRules_MissingAntecedent(t *testing.T) {
	// {A,B} without singleton counts cannot produce rules.
	counts := ItemsetCounts{ItemsetKey("A", "B"): 2}
	if rules := GenerateRules(counts, 4, 0, 0); len(rules) != 0 {
		t.Errorf("GenerateRules() = %+v, want none", rules)
	}
}

func TestGenerateRules_ThreeItemPartitions(t *testing.T) {
	counts := ItemsetCounts{
		"A": 2, "B": 2, "C": 2,
		ItemsetKey("A", "B"): 2, ItemsetKey("A", "C"): 2, ItemsetKey("B", "C"): 2,
		ItemsetKey("A", "B", "C"): 2,
	}
	rules := GenerateRules(counts, 2, 0, 0)
	// 3 pairs * 2 directions + 6 partitions of the triple.
	if len(rules) != 12 {
		t.Fatalf("got %d rules, want 12", len(rules))
	}
	if _, ok := findRule(rules, []string{"A", "C"}, []string{"B"}); !ok {
		t.Error("rule {A,C} -> {B} missing")
	}
	for _, r := range rules {
		if r.Confidence != 1 || r.Lift != 1 {
			t.Errorf("rule %+v: want confidence 1 lift 1", r)
		}
	}
}

func TestItemsetKey(t *testing.T) {
	if ItemsetKey("B", "A") != ItemsetKey("A", "B") {
		t.Error("ItemsetKey is order dependent")
	}
	in := []string{"B", "A"}
	_ = ItemsetKey(in...)
	if in[0] != "B" {
		t.Error("ItemsetKey modified its input")
	}
	if got := SplitKey(ItemsetKey("C", "A", "B")); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("SplitKey() = %v", got)
	}
}
