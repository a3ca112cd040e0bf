// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Package catalog persists the product catalog in BadgerDB.
//
// Products are stored as JSON under "product:<id>" keys, so a prefix scan
// returns them ordered by product id. The catalog is edited through the API
// and can be re-seeded from the products CSV after each pipeline run.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/validation"
)

const productKeyPrefix = "product:"

var (
	// ErrProductNotFound is returned by Get for unknown ids.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct wraps validation failures on Upsert and Import.
	ErrInvalidProduct = errors.New("invalid product")
)

// Options configures Open.
type Options struct {
	Path     string
	InMemory bool
}

// Store is a BadgerDB-backed product catalog.
type Store struct {
	db *badger.DB
}

// Open opens or creates the catalog database.
func Open(opts Options) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("catalog path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for catalog: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func productKey(id string) []byte {
	return []byte(productKeyPrefix + id)
}

func validateProduct(p *models.Product) error {
	if verr := validation.ValidateStruct(p); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProduct, verr.Error())
	}
	return nil
}

// Upsert inserts or replaces a product by id.
func (s *Store) Upsert(ctx context.Context, p models.Product) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	if err := validateProduct(&p); err != nil {
		return models.Product{}, err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return models.Product{}, fmt.Errorf("marshal product: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(productKey(p.ProductID), data)
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("set product: %w", err)
	}
	return p, nil
}

// Get returns a product by id.
func (s *Store) Get(ctx context.Context, id string) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	var p models.Product
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(productKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// List returns every product ordered by id.
func (s *Store) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(productKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var p models.Product
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			})
			if err != nil {
				return err
			}
			products = append(products, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Lookup returns the catalog indexed by product id.
func (s *Store) Lookup(ctx context.Context) (map[string]models.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.Product, len(products))
	for _, p := range products {
		m[p.ProductID] = p
	}
	return m, nil
}

// Import upserts products in one batch. Invalid rows are skipped and
// counted; the number written and skipped is returned.
func (s *Store) Import(ctx context.Context, products []models.Product) (written, skipped int, err error) {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range products {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		p := products[i]
		if validateProduct(&p) != nil {
			skipped++
			continue
		}
		data, err := json.Marshal(p)
		if err != nil {
			return 0, 0, fmt.Errorf("marshal product %s: %w", p.ProductID, err)
		}
		if err := wb.Set(productKey(p.ProductID), data); err != nil {
			return 0, 0, fmt.Errorf("batch set %s: %w", p.ProductID, err)
		}
		written++
	}
	if err := wb.Flush(); err != nil {
		return 0, 0, fmt.Errorf("flush import: %w", err)
	}
	return written, skipped, nil
}
