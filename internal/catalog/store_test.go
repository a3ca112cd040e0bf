// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/crosssell/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mug() models.Product {
	return models.Product{ProductID: "P1", Name: "Mug", Category: "Kitchen", Brand: "Acme", BasePrice: 9.5}
}

func TestUpsertGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, mug()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	got, err := s.Get(ctx, "P1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != mug() {
		t.Errorf("Get() = %+v, want %+v", got, mug())
	}

	updated := mug()
	updated.Name = "Large Mug"
	if _, err := s.Upsert(ctx, updated); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "P1")
	if got.Name != "Large Mug" {
		t.Errorf("upsert did not replace: %+v", got)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("error = %v, want ErrProductNotFound", err)
	}
}

func TestUpsertInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *models.Product)
	}{
		{"missing id", func(p *models.Product) { p.ProductID = "" }},
		{"missing name", func(p *models.Product) { p.Name = "" }},
		{"missing category", func(p *models.Product) { p.Category = "" }},
		{"negative price", func(p *models.Product) { p.BasePrice = -1 }},
	}
	s := newTestStore(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mug()
			tt.modify(&p)
			if _, err := s.Upsert(context.Background(), p); !errors.Is(err, ErrInvalidProduct) {
				t.Errorf("error = %v, want ErrInvalidProduct", err)
			}
		})
	}
}

func TestListSortedAndImport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	written, skipped, err := s.Import(ctx, []models.Product{
		{ProductID: "P3", Name: "Plate", Category: "Kitchen"},
		{ProductID: "P1", Name: "Mug", Category: "Kitchen"},
		{ProductID: "", Name: "Ghost", Category: "Kitchen"},
		{ProductID: "P2", Name: "Bowl", Category: "Kitchen"},
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if written != 3 || skipped != 1 {
		t.Errorf("Import() = %d written, %d skipped; want 3, 1", written, skipped)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, p := range list {
		ids = append(ids, p.ProductID)
	}
	if want := []string{"P1", "P2", "P3"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("List() ids = %v, want %v", ids, want)
	}

	lookup, err := s.Lookup(ctx)
	if err != nil || lookup["P2"].Name != "Bowl" {
		t.Errorf("Lookup() = %v, %v", lookup, err)
	}
}

func TestListEmpty(t *testing.T) {
	list, err := newTestStore(t).List(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Errorf("List() = %v, %v; want empty non-nil", list, err)
	}
}

func TestPersistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")
	ctx := context.Background()

	s, err := Open(Options{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upsert(ctx, mug()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(Options{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got, err := s.Get(ctx, "P1"); err != nil || got.Name != "Mug" {
		t.Errorf("after reopen Get() = %+v, %v", got, err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Error("Open() without path should fail")
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Upsert(ctx, mug()); !errors.Is(err, context.Canceled) {
		t.Errorf("Upsert() error = %v, want context.Canceled", err)
	}
}
