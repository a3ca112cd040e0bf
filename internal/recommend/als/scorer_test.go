// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package als

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/tomtom215/crosssell/internal/recommend"
)

// fixedFactors builds a factor set with hand-picked vectors.
func fixedFactors() *recommend.FactorSet {
	return &recommend.FactorSet{
		Factors:     2,
		UserFactors: []float64{1, 0, 0, 1},
		ItemFactors: []float64{
			0.5, 0.1, // A
			2, 0, // B
			0, 3, // C
			0, 0, // D
		},
		Users:     []string{"U1", "U2"},
		Items:     []string{"A", "B", "C", "D"},
		UserIndex: map[string]int{"U1": 0, "U2": 1},
		ItemIndex: map[string]int{"A": 0, "B": 1, "C": 2, "D": 3},
	}
}

func TestRecommendForUser(t *testing.T) {
	fs := fixedFactors()

	tests := []struct {
		name string
		user string
		k    int
		want []string
	}{
		{name: "ranks by dot product", user: "U1", k: 10, want: []string{"B", "A", "C", "D"}},
		{name: "top k", user: "U2", k: 2, want: []string{"C", "A"}},
		{name: "ties keep item order", user: "U2", k: 10, want: []string{"C", "A", "B", "D"}},
		{name: "unknown user", user: "nobody", k: 5, want: nil},
		{name: "zero k", user: "U1", k: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecommendForUser(fs, tt.user, tt.k)
			if got == nil {
				t.Fatal("RecommendForUser returned nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d recs, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, id := range tt.want {
				if got[i].ProductID != id || got[i].UserID != tt.user {
					t.Errorf("rec %d = %+v, want product %s", i, got[i], id)
				}
			}
		})
	}

	if got := RecommendForUser(nil, "U1", 5); len(got) != 0 {
		t.Errorf("nil factor set returned %+v", got)
	}
}

func TestSimilarItems(t *testing.T) {
	fs := fixedFactors()

	got := SimilarItems(fs, "B", 10)
	if len(got) != 3 {
		t.Fatalf("got %d similar items, want 3", len(got))
	}
	for _, s := range got {
		if s.SimilarProductID == "B" {
			t.Error("item is similar to itself")
		}
		if s.ProductID != "B" {
			t.Errorf("source = %s, want B", s.ProductID)
		}
	}
	if got[0].SimilarProductID != "A" {
		t.Errorf("most similar to B = %s, want A", got[0].SimilarProductID)
	}
	// C is orthogonal and D has zero norm: both score 0, kept in item order.
	if got[1].SimilarProductID != "C" || got[2].SimilarProductID != "D" || got[2].Score != 0 {
		t.Errorf("tail = %+v", got[1:])
	}

	if got := SimilarItems(fs, "missing", 5); len(got) != 0 {
		t.Errorf("unknown item returned %+v", got)
	}
	if got := SimilarItems(fs, "A", 1); len(got) != 1 {
		t.Errorf("k=1 returned %d items", len(got))
	}
	if got := SimilarItems(&recommend.FactorSet{Factors: 2}, "A", 5); len(got) != 0 {
		t.Errorf("empty set returned %+v", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2}, b: []float64{1, 2}, want: 1},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "zero norm", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoringProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	interactionsGen := gen.SliceOfN(12, gen.IntRange(0, 24))

	toInteractions := func(cells []int) []recommend.Interaction {
		out := make([]recommend.Interaction, 0, len(cells))
		for _, c := range cells {
			out = append(out, recommend.Interaction{
				UserID:   string(rune('a' + c/5)),
				ItemID:   string(rune('A' + c%5)),
				Quantity: float64(1 + c%3),
			})
		}
		return out
	}

	properties.Property("similarity is symmetric", prop.ForAll(
		func(cells []int) bool {
			cfg := recommend.ALSConfig{Factors: 3, Regularization: 0.1, Iterations: 3, Seed: 42}
			fs, _, err := Train(context.Background(), toInteractions(cells), cfg)
			if err != nil {
				return false
			}
			score := func(from, to string) (float64, bool) {
				for _, s := range SimilarItems(fs, from, len(fs.Items)) {
					if s.SimilarProductID == to {
						return s.Score, true
					}
				}
				return 0, false
			}
			for _, a := range fs.Items {
				for _, b := range fs.Items {
					if a == b {
						continue
					}
					ab, ok1 := score(a, b)
					ba, ok2 := score(b, a)
					if !ok1 || !ok2 || math.Abs(ab-ba) > 1e-12 {
						return false
					}
				}
			}
			return true
		},
		interactionsGen,
	))

	properties.Property("cold start returns empty lists", prop.ForAll(
		func(cells []int) bool {
			fs, _, err := Train(context.Background(), toInteractions(cells), recommend.DefaultALSConfig())
			if err != nil {
				return false
			}
			return len(RecommendForUser(fs, "unknown-user", 5)) == 0 &&
				len(SimilarItems(fs, "unknown-item", 5)) == 0
		},
		interactionsGen,
	))

	properties.Property("recommendations are sorted and cover every item", prop.ForAll(
		func(cells []int) bool {
			fs, _, err := Train(context.Background(), toInteractions(cells), recommend.DefaultALSConfig())
			if err != nil {
				return false
			}
			for _, u := range fs.Users {
				recs := RecommendForUser(fs, u, len(fs.Items))
				if len(recs) != len(fs.Items) {
					return false
				}
				for i := 1; i < len(recs); i++ {
					if recs[i].Score > recs[i-1].Score {
						return false
					}
				}
			}
			return true
		},
		interactionsGen,
	))

	properties.TestingRun(t)
}
