// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

/*
Package lakehouse stores pipeline tables as JSON files in a local
bronze/silver/gold directory layout.

Layout:

	{root}/
	├── bronze/   raw CSV imports (orders_raw.json, products_raw.json, customers_raw.json)
	├── silver/   cleansed records (orders.json, products.json, customers.json)
	└── gold/     serving tables (assoc_rules.json, item_similarity.json,
	              user_recommendations.json)

Every table is a JSON array of rows, indented by two spaces. Writes go to a
temporary file in the same directory and are renamed into place, so readers
never observe a half-written table.

Gold tables are addressed by name and only the three serving tables exist;
any other name fails with ErrUnsupportedTable.
*/
package lakehouse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crosssell/internal/models"
)

// ErrUnsupportedTable is returned for gold table names outside the fixed set.
var ErrUnsupportedTable = errors.New("unsupported gold table")

// Zone is a lakehouse layer.
type Zone string

const (
	Bronze Zone = "bronze"
	Silver Zone = "silver"
	Gold   Zone = "gold"
)

// Table locates a JSON table inside a zone.
type Table struct {
	Zone Zone
	File string
}

// Bronze and silver tables.
var (
	BronzeOrders    = Table{Bronze, "orders_raw.json"}
	BronzeProducts  = Table{Bronze, "products_raw.json"}
	BronzeCustomers = Table{Bronze, "customers_raw.json"}

	SilverOrders    = Table{Silver, "orders.json"}
	SilverProducts  = Table{Silver, "products.json"}
	SilverCustomers = Table{Silver, "customers.json"}
)

// Gold table names.
const (
	AssocRules     = "assoc_rules"
	ItemSimilarity = "item_similarity"
	UserRecs       = "user_recs"
)

var goldFiles = map[string]string{
	AssocRules:     "assoc_rules.json",
	ItemSimilarity: "item_similarity.json",
	UserRecs:       "user_recommendations.json",
}

// GoldTable resolves a gold table name.
func GoldTable(name string) (Table, error) {
	file, ok := goldFiles[name]
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedTable, name)
	}
	return Table{Gold, file}, nil
}

// Lakehouse is a zone layout rooted at a directory.
type Lakehouse struct {
	root string
}

// New creates the zone directories under root if needed.
func New(root string) (*Lakehouse, error) {
	if root == "" {
		return nil, errors.New("lakehouse root is required")
	}
	for _, z := range []Zone{Bronze, Silver, Gold} {
		if err := os.MkdirAll(filepath.Join(root, string(z)), 0o750); err != nil {
			return nil, fmt.Errorf("create %s zone: %w", z, err)
		}
	}
	return &Lakehouse{root: root}, nil
}

// Root returns the lakehouse root directory.
func (l *Lakehouse) Root() string { return l.root }

// Path returns the file path of t.
func (l *Lakehouse) Path(t Table) string {
	return filepath.Join(l.root, string(t.Zone), t.File)
}

// Write replaces table t with rows and returns its path.
func Write[T any](l *Lakehouse, t Table, rows []T) (string, error) {
	if rows == nil {
		rows = []T{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", t.File, err)
	}

	target := l.Path(t)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "."+t.File+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", t.File, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", t.File, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("publish %s: %w", t.File, err)
	}
	return target, nil
}

// Read loads table t.
func Read[T any](l *Lakehouse, t Table) ([]T, error) {
	data, err := os.ReadFile(l.Path(t))
	if err != nil {
		return nil, err
	}
	rows := []T{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.File, err)
	}
	return rows, nil
}

// WriteGold writes a gold table by name.
func WriteGold[T any](l *Lakehouse, name string, rows []T) (string, error) {
	t, err := GoldTable(name)
	if err != nil {
		return "", err
	}
	return Write(l, t, rows)
}

// ReadGold loads a gold table by name.
func ReadGold[T any](l *Lakehouse, name string) ([]T, error) {
	t, err := GoldTable(name)
	if err != nil {
		return nil, err
	}
	return Read[T](l, t)
}

// ServingTables holds every gold table.
type ServingTables struct {
	AssocRules     []models.RuleRow           `json:"assoc_rules"`
	ItemSimilarity []models.SimilarityRow     `json:"item_similarity"`
	UserRecs       []models.RecommendationRow `json:"user_recs"`
}

// SummarizeForServing loads all gold tables.
func SummarizeForServing(l *Lakehouse) (*ServingTables, error) {
	rules, err := ReadGold[models.RuleRow](l, AssocRules)
	if err != nil {
		return nil, err
	}
	similar, err := ReadGold[models.SimilarityRow](l, ItemSimilarity)
	if err != nil {
		return nil, err
	}
	recs, err := ReadGold[models.RecommendationRow](l, UserRecs)
	if err != nil {
		return nil, err
	}
	return &ServingTables{AssocRules: rules, ItemSimilarity: similar, UserRecs: recs}, nil
}
