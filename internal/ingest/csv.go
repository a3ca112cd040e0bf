// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Package ingest reads the raw CSV exports (orders, products, customers) and
// cleanses them into the records stored in the silver zone.
//
// Readers are header-keyed, so column order does not matter and unknown
// columns are ignored. Numeric parsing is tolerant: an empty quantity or
// price reads as zero and a fractional quantity is truncated.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/crosssell/internal/models"
)

var (
	// ErrMissingColumn is returned when a required header column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedValue is returned when a numeric field cannot be parsed.
	ErrMalformedValue = errors.New("malformed value")
)

var (
	orderColumns    = []string{"order_id", "user_id", "product_id", "quantity"}
	productColumns  = []string{"product_id"}
	customerColumns = []string{"user_id"}
)

// row is one CSV record addressed by header name.
type row struct {
	cols map[string]int
	rec  []string
	line int
}

func (r row) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return r.rec[i]
}

func (r row) number(name string) (float64, error) {
	s := strings.TrimSpace(r.get(name))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("line %d: %s %q: %w", r.line, name, s, ErrMalformedValue)
	}
	return v, nil
}

func (r row) integer(name string) (int, error) {
	v, err := r.number(name)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func readRecords[T any](r io.Reader, required []string, parse func(row) (T, error)) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		cols[strings.ToLower(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	out := []T{}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		v, err := parse(row{cols: cols, rec: rec, line: line})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadOrdersCSV parses order lines.
func ReadOrdersCSV(r io.Reader) ([]models.OrderLine, error) {
	return readRecords(r, orderColumns, func(rw row) (models.OrderLine, error) {
		qty, err := rw.integer("quantity")
		if err != nil {
			return models.OrderLine{}, err
		}
		price, err := rw.number("unit_price")
		if err != nil {
			return models.OrderLine{}, err
		}
		return models.OrderLine{
			OrderID:      rw.get("order_id"),
			UserID:       rw.get("user_id"),
			ProductID:    rw.get("product_id"),
			Quantity:     qty,
			UnitPrice:    price,
			OrderTS:      rw.get("order_ts"),
			SalesChannel: rw.get("sales_channel"),
		}, nil
	})
}

// ReadProductsCSV parses catalog rows.
func ReadProductsCSV(r io.Reader) ([]models.Product, error) {
	return readRecords(r, productColumns, func(rw row) (models.Product, error) {
		price, err := rw.number("base_price")
		if err != nil {
			return models.Product{}, err
		}
		return models.Product{
			ProductID:   rw.get("product_id"),
			Name:        rw.get("name"),
			Category:    rw.get("category"),
			Subcategory: rw.get("subcategory"),
			Brand:       rw.get("brand"),
			BasePrice:   price,
		}, nil
	})
}

// ReadCustomersCSV parses customer attribute rows.
func ReadCustomersCSV(r io.Reader) ([]models.Customer, error) {
	return readRecords(r, customerColumns, func(rw row) (models.Customer, error) {
		return models.Customer{
			UserID:      rw.get("user_id"),
			Segment:     rw.get("segment"),
			Region:      rw.get("region"),
			LoyaltyTier: rw.get("loyalty_tier"),
		}, nil
	})
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ReadOrdersFile opens path and parses it with ReadOrdersCSV.
func ReadOrdersFile(path string) ([]models.OrderLine, error) {
	return readFile(path, ReadOrdersCSV)
}

// ReadProductsFile opens path and parses it with ReadProductsCSV.
func ReadProductsFile(path string) ([]models.Product, error) {
	return readFile(path, ReadProductsCSV)
}

// ReadCustomersFile opens path and parses it with ReadCustomersCSV.
func ReadCustomersFile(path string) ([]models.Customer, error) {
	return readFile(path, ReadCustomersCSV)
}
