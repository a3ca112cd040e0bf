// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Package models defines the records exchanged between ingestion, the
// lakehouse, the modeling packages, and the HTTP API.
//
// Records are plain structs with JSON tags matching the column names of the
// source CSV files and the lakehouse JSON tables:
//
//   - OrderLine: one line of a customer order (orders.csv)
//   - Product: one catalog entry (products.csv, catalog store)
//   - Customer: one customer profile (customers.csv)
//   - APIResponse, Metadata, APIError: the HTTP response envelope
//
// Product carries go-playground/validator tags so the catalog API can
// validate upserts with the shared validation package.
package models
