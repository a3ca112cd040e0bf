// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const ordersCSV = `order_id,user_id,product_id,quantity,unit_price,order_ts
O1,U1,A,1,2.50,2026-01-01T10:00:00Z
O1,U1,B,1,3.00,2026-01-01T10:00:00Z
O2,U2,A,2,2.50,2026-01-02T10:00:00Z
O2,U2,B,1,3.00,2026-01-02T10:00:00Z
O3,U1,A,1,2.50,2026-01-03T10:00:00Z
O3,U1,C,1,4.00,2026-01-03T10:00:00Z
O4,U2,B,1,3.00,2026-01-04T10:00:00Z
O4,U2,C,3,4.00,2026-01-04T10:00:00Z
`

func writeOrders(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.csv")
	if err := os.WriteFile(path, []byte(ordersCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path, filepath.Join(dir, "lakehouse")
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"missing orders", []string{}, true},
		{"bad support", []string{"-orders", "o.csv", "-min-support", "0"}, true},
		{"bad factors", []string{"-orders", "o.csv", "-als-factors", "0"}, true},
		{"unknown flag", []string{"-orders", "o.csv", "-nope"}, true},
		{"ok", []string{"-orders", "o.csv", "-min-support", "0.4", "-top-k", "3"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (opts.cfg.Model.MinSupport != 0.4 || opts.cfg.Model.TopK != 3) {
				t.Errorf("overrides not applied: %+v", opts.cfg.Model)
			}
		})
	}
}

func TestRun_JSON(t *testing.T) {
	orders, root := writeOrders(t)
	var out bytes.Buffer
	args := []string{
		"-orders", orders, "-lakehouse-root", root,
		"-min-support", "0.4", "-min-confidence", "0.5", "-min-lift", "0",
		"-als-factors", "2", "-als-iterations", "5", "-sample", "1", "-json",
	}
	if err := run(args, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var got summary
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.Orders != 8 || len(got.Rules) == 0 {
		t.Errorf("summary = %+v", got)
	}
	for _, r := range got.Recommendations {
		if r.UserID != got.Recommendations[0].UserID {
			t.Errorf("sample=1 returned users %q and %q", got.Recommendations[0].UserID, r.UserID)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "gold")); err != nil {
		t.Errorf("gold layer not written: %v", err)
	}
}

func TestRun_Text(t *testing.T) {
	orders, root := writeOrders(t)
	var out bytes.Buffer
	args := []string{"-orders", orders, "-lakehouse-root", root, "-min-support", "0.4", "-min-lift", "0", "-als-factors", "2"}
	if err := run(args, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"LHS", "USER", "holdout@"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
