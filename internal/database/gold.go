// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/metrics"
	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/recommend"
	"github.com/tomtom215/crosssell/internal/recommend/assoc"
)

// Run describes one published pipeline run.
type Run struct {
	RunID              string    `json:"run_id"`
	CompletedAt        time.Time `json:"completed_at"`
	Transactions       int64     `json:"transactions"`
	Rules              int64     `json:"rules"`
	SimilarRows        int64     `json:"similar_rows"`
	RecommendationRows int64     `json:"recommendation_rows"`
}

// GoldTables is the payload of ReplaceGoldTables.
type GoldTables struct {
	RunID          string
	Transactions   int
	AssocRules     []models.RuleRow
	ItemSimilarity []models.SimilarityRow
	UserRecs       []models.RecommendationRow
}

// Item lists are passed as a single string joined with the itemset key
// separator and split back inside DuckDB. Ids never contain the separator.
const (
	insertRule = `INSERT INTO assoc_rules VALUES
		(?, string_split(?, chr(31)), string_split(?, chr(31)), ?, ?, ?)`
	insertSimilar = `INSERT INTO item_similarity VALUES (?, ?, ?, ?, ?, ?)`
	insertRec     = `INSERT INTO user_recommendations VALUES (?, ?, ?, ?, ?, ?)`
	insertRun     = `INSERT INTO model_runs VALUES (?, ?, ?, ?, ?, ?)`
)

// ReplaceGoldTables swaps the contents of every gold table in one
// transaction and records the run.
func (db *DB) ReplaceGoldTables(ctx context.Context, g GoldTables) (err error) {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	for _, table := range []string{"assoc_rules", "item_similarity", "user_recommendations"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	err = insertRows(ctx, tx, insertRule, g.AssocRules, func(i int, r models.RuleRow) []any {
		return []any{i, strings.Join(r.LHS, assoc.KeySeparator), strings.Join(r.RHS, assoc.KeySeparator), r.Support, r.Confidence, r.Lift}
	})
	if err != nil {
		return fmt.Errorf("insert assoc_rules: %w", err)
	}
	err = insertRows(ctx, tx, insertSimilar, g.ItemSimilarity, func(i int, r models.SimilarityRow) []any {
		return []any{i, r.ProductID, r.SimilarProductID, r.Score, nullString(r.ProductName), nullString(r.SimilarProductName)}
	})
	if err != nil {
		return fmt.Errorf("insert item_similarity: %w", err)
	}
	err = insertRows(ctx, tx, insertRec, g.UserRecs, func(i int, r models.RecommendationRow) []any {
		return []any{i, r.UserID, r.ProductID, r.Score, nullString(r.ProductName), nullString(r.UserSegment)}
	})
	if err != nil {
		return fmt.Errorf("insert user_recommendations: %w", err)
	}

	if _, err = tx.ExecContext(ctx, insertRun, g.RunID, time.Now().UTC(), g.Transactions,
		len(g.AssocRules), len(g.ItemSimilarity), len(g.UserRecs)); err != nil {
		return fmt.Errorf("insert model_runs: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit gold tables: %w", err)
	}
	metrics.RecordStage("warehouse", time.Since(start))
	return nil
}

func insertRows[T any](ctx context.Context, tx *sql.Tx, query string, rows []T, args func(int, T) []any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, args(i, r)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// TopRulesForItem returns up to k rules whose antecedent contains item, in
// gold table order.
func (db *DB) TopRulesForItem(ctx context.Context, item string, k int) ([]recommend.Rule, error) {
	out := []recommend.Rule{}
	if k <= 0 {
		return out, nil
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT array_to_string(lhs, chr(31)), array_to_string(rhs, chr(31)), support, confidence, lift
		FROM assoc_rules
		WHERE list_contains(lhs, ?)
		ORDER BY rank
		LIMIT ?`, item, k)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lhs, rhs string
		var r recommend.Rule
		if err := rows.Scan(&lhs, &rhs, &r.Support, &r.Confidence, &r.Lift); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		r.Antecedent = assoc.SplitKey(lhs)
		r.Consequent = assoc.SplitKey(rhs)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecommendationsForUser returns up to k stored recommendations for user.
func (db *DB) RecommendationsForUser(ctx context.Context, userID string, k int) ([]recommend.UserRecommendation, error) {
	out := []recommend.UserRecommendation{}
	if k <= 0 {
		return out, nil
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, product_id, score
		FROM user_recommendations
		WHERE user_id = ?
		ORDER BY rank
		LIMIT ?`, userID, k)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r recommend.UserRecommendation
		if err := rows.Scan(&r.UserID, &r.ProductID, &r.Score); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestRun returns the most recently recorded run, or nil if none exists.
func (db *DB) LatestRun(ctx context.Context) (*Run, error) {
	var r Run
	err := db.conn.QueryRowContext(ctx, `
		SELECT run_id, completed_at, transactions, rules, similar_rows, recommendation_rows
		FROM model_runs
		ORDER BY completed_at DESC
		LIMIT 1`).Scan(&r.RunID, &r.CompletedAt, &r.Transactions, &r.Rules, &r.SimilarRows, &r.RecommendationRows)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	return &r, nil
}
