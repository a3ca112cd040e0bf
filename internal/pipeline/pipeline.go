// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/crosssell/internal/config"
	"github.com/tomtom215/crosssell/internal/database"
	"github.com/tomtom215/crosssell/internal/evaluation"
	"github.com/tomtom215/crosssell/internal/ingest"
	"github.com/tomtom215/crosssell/internal/lakehouse"
	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/metrics"
	"github.com/tomtom215/crosssell/internal/models"
	"github.com/tomtom215/crosssell/internal/recommend"
	"github.com/tomtom215/crosssell/internal/recommend/als"
	"github.com/tomtom215/crosssell/internal/recommend/assoc"
)

// CatalogSource supplies product details when no products CSV is configured.
type CatalogSource interface {
	Lookup(ctx context.Context) (map[string]models.Product, error)
}

// Warehouse receives the gold tables after they are written to the lakehouse.
type Warehouse interface {
	ReplaceGoldTables(ctx context.Context, g database.GoldTables) error
}

// Options configures one pipeline run.
type Options struct {
	Sources       config.SourcesConfig
	LakehouseRoot string
	Model         config.ModelConfig

	// EvaluationK enables the holdout evaluation at that cutoff when > 0.
	EvaluationK int

	// Catalog is consulted for enrichment when Sources.Products is empty.
	Catalog CatalogSource

	// Warehouse, when set, is loaded with the gold tables.
	Warehouse Warehouse
}

// Artifacts holds every table a run produced.
type Artifacts struct {
	BronzeOrders    []models.OrderLine `json:"bronze_orders"`
	SilverOrders    []models.OrderLine `json:"silver_orders"`
	BronzeProducts  []models.Product   `json:"bronze_products"`
	SilverProducts  []models.Product   `json:"silver_products"`
	BronzeCustomers []models.Customer  `json:"bronze_customers"`
	SilverCustomers []models.Customer  `json:"silver_customers"`

	AssocRules          []models.RuleRow           `json:"assoc_rules"`
	ItemSimilarity      []models.SimilarityRow     `json:"item_similarity"`
	UserRecommendations []models.RecommendationRow `json:"user_recommendations"`
}

// Model is the in-memory snapshot served by the API. It is immutable once
// published.
type Model struct {
	RunID     string    `json:"run_id"`
	Version   string    `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	TopK      int       `json:"top_k"`

	Mining      *assoc.MiningResult        `json:"-"`
	Factors     *recommend.FactorSet       `json:"-"`
	Catalog     map[string]models.Product  `json:"-"`
	Customers   map[string]models.Customer `json:"-"`
	TrainReport *als.TrainReport           `json:"train_report"`
	Evaluation  *evaluation.Report         `json:"evaluation,omitempty"`
}

// Result is returned by Run.
type Result struct {
	RunID     string
	Duration  time.Duration
	Artifacts *Artifacts
	Model     *Model
}

// Run executes ingest, cleansing, modeling and publishing.
//
// Mining, training and the optional evaluation run concurrently on the
// silver orders. Gold tables are written only after all three succeed.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	ctx = logging.ContextWithRunID(ctx, runID)
	log := logging.Ctx(ctx).With().Str("component", "pipeline").Logger()

	res, err := run(ctx, runID, opts)
	duration := time.Since(start)
	metrics.RecordPipelineRun(duration, err)
	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Msg("Pipeline run failed")
		return nil, err
	}
	res.Duration = duration
	log.Info().
		Dur("duration", duration).
		Int("orders", len(res.Artifacts.SilverOrders)).
		Int("rules", len(res.Artifacts.AssocRules)).
		Int("users", res.Model.Factors.NumUsers()).
		Int("items", res.Model.Factors.NumItems()).
		Msg("Pipeline run completed")
	return res, nil
}

//nolint:gocritic // opts is passed once per run
func run(ctx context.Context, runID string, opts Options) (*Result, error) {
	if opts.Sources.Orders == "" {
		return nil, errors.New("orders source is required")
	}
	mining, alsCfg := opts.Model.Mining(), opts.Model.ALS()
	if err := mining.Validate(); err != nil {
		return nil, err
	}
	if err := alsCfg.Validate(); err != nil {
		return nil, err
	}
	topK := opts.Model.TopK
	if topK <= 0 {
		topK = 5
	}

	lh, err := lakehouse.New(opts.LakehouseRoot)
	if err != nil {
		return nil, err
	}

	art := &Artifacts{}
	stage := time.Now()
	if err := ingestStage(lh, opts.Sources, art); err != nil {
		return nil, err
	}
	metrics.RecordStage("ingest", time.Since(stage))

	catalog := ingest.ProductLookup(art.SilverProducts)
	if opts.Sources.Products == "" && opts.Catalog != nil {
		if catalog, err = opts.Catalog.Lookup(ctx); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}
	customers := ingest.CustomerLookup(art.SilverCustomers)

	var (
		mined  *assoc.MiningResult
		fs     *recommend.FactorSet
		report *als.TrainReport
		eval   *evaluation.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		r, err := assoc.Mine(assoc.BuildTransactions(art.SilverOrders), mining)
		if err != nil {
			return fmt.Errorf("mine rules: %w", err)
		}
		metrics.RecordMining(time.Since(t), r.TransactionCount, len(r.Itemsets), len(r.Rules))
		mined = r
		return nil
	})
	g.Go(func() error {
		f, rep, err := als.Train(gctx, als.InteractionsFromOrders(art.SilverOrders), alsCfg)
		if err != nil {
			return fmt.Errorf("train als: %w", err)
		}
		metrics.RecordTraining(rep.Duration, rep.Users, rep.Items, rep.SkippedPivots)
		fs, report = f, rep
		return nil
	})
	if opts.EvaluationK > 0 {
		g.Go(func() error {
			split := evaluation.HoldoutSplit(art.SilverOrders)
			f, _, err := als.Train(gctx, als.InteractionsFromOrders(split.Train), alsCfg)
			if err != nil {
				return fmt.Errorf("train holdout model: %w", err)
			}
			r := evaluation.Evaluate(f, split.HeldOut, opts.EvaluationK)
			eval = &r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stage = time.Now()
	art.AssocRules = EnrichRules(mined.Rules, catalog)
	art.ItemSimilarity = BuildItemSimilarity(fs, topK, catalog)
	art.UserRecommendations = BuildUserRecommendations(fs, topK, catalog, customers)
	metrics.RecordStage("enrich", time.Since(stage))

	stage = time.Now()
	if err := publishGold(lh, art); err != nil {
		return nil, err
	}
	metrics.RecordStage("publish", time.Since(stage))

	if opts.Warehouse != nil {
		err := opts.Warehouse.ReplaceGoldTables(ctx, database.GoldTables{
			RunID:          runID,
			Transactions:   mined.TransactionCount,
			AssocRules:     art.AssocRules,
			ItemSimilarity: art.ItemSimilarity,
			UserRecs:       art.UserRecommendations,
		})
		if err != nil {
			return nil, fmt.Errorf("load warehouse: %w", err)
		}
	}

	model := &Model{
		RunID:       runID,
		Version:     runID[:8],
		TrainedAt:   time.Now().UTC(),
		TopK:        topK,
		Mining:      mined,
		Factors:     fs,
		Catalog:     catalog,
		Customers:   customers,
		TrainReport: report,
		Evaluation:  eval,
	}
	return &Result{RunID: runID, Artifacts: art, Model: model}, nil
}

// ingestStage moves every source through bronze and silver. Each table is
// read back from the lakehouse so later stages see exactly what was stored.
func ingestStage(lh *lakehouse.Lakehouse, src config.SourcesConfig, art *Artifacts) error {
	var err error
	art.BronzeOrders, art.SilverOrders, err = medallion(lh, src.Orders,
		ingest.ReadOrdersFile, ingest.CleanseOrders, lakehouse.BronzeOrders, lakehouse.SilverOrders)
	if err != nil {
		return fmt.Errorf("orders: %w", err)
	}

	art.BronzeProducts, art.SilverProducts = []models.Product{}, []models.Product{}
	if src.Products != "" {
		art.BronzeProducts, art.SilverProducts, err = medallion(lh, src.Products,
			ingest.ReadProductsFile, ingest.CleanseProducts, lakehouse.BronzeProducts, lakehouse.SilverProducts)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
	}

	art.BronzeCustomers, art.SilverCustomers = []models.Customer{}, []models.Customer{}
	if src.Customers != "" {
		art.BronzeCustomers, art.SilverCustomers, err = medallion(lh, src.Customers,
			ingest.ReadCustomersFile, ingest.CleanseCustomers, lakehouse.BronzeCustomers, lakehouse.SilverCustomers)
		if err != nil {
			return fmt.Errorf("customers: %w", err)
		}
	}
	return nil
}

func medallion[T any](
	lh *lakehouse.Lakehouse,
	path string,
	read func(string) ([]T, error),
	cleanse func([]T) []T,
	bronze, silver lakehouse.Table,
) (bronzeRows, silverRows []T, err error) {
	raw, err := read(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read source: %w", err)
	}
	if _, err := lakehouse.Write(lh, bronze, raw); err != nil {
		return nil, nil, err
	}
	if bronzeRows, err = lakehouse.Read[T](lh, bronze); err != nil {
		return nil, nil, err
	}
	if _, err := lakehouse.Write(lh, silver, cleanse(bronzeRows)); err != nil {
		return nil, nil, err
	}
	if silverRows, err = lakehouse.Read[T](lh, silver); err != nil {
		return nil, nil, err
	}
	return bronzeRows, silverRows, nil
}

func publishGold(lh *lakehouse.Lakehouse, art *Artifacts) error {
	if _, err := lakehouse.WriteGold(lh, lakehouse.AssocRules, art.AssocRules); err != nil {
		return err
	}
	if _, err := lakehouse.WriteGold(lh, lakehouse.ItemSimilarity, art.ItemSimilarity); err != nil {
		return err
	}
	_, err := lakehouse.WriteGold(lh, lakehouse.UserRecs, art.UserRecommendations)
	return err
}
