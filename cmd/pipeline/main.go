// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

// Command pipeline runs one pass of the basket analytics pipeline and
// prints a summary: the strongest rules, a sample of user recommendations
// and the holdout evaluation report.
//
//	pipeline -orders data/orders.csv -products data/products.csv -min-support 0.02
//
// Gold tables are written under -lakehouse-root as in the server. Model
// defaults come from the built-in configuration; flags override them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crosssell/internal/config"
	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/pipeline"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logging.Error().Err(err).Msg("Pipeline failed")
		os.Exit(1)
	}
}

type cliOptions struct {
	cfg      *config.Config
	sample   int
	asJSON   bool
	logLevel string
}

func parseFlags(args []string) (*cliOptions, error) {
	cfg := config.Default()
	opts := &cliOptions{cfg: cfg}

	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	fs.StringVar(&cfg.Sources.Orders, "orders", cfg.Sources.Orders, "orders CSV (required)")
	fs.StringVar(&cfg.Sources.Products, "products", cfg.Sources.Products, "products CSV")
	fs.StringVar(&cfg.Sources.Customers, "customers", cfg.Sources.Customers, "customers CSV")
	fs.StringVar(&cfg.Lakehouse.Root, "lakehouse-root", cfg.Lakehouse.Root, "lakehouse root directory")
	fs.Float64Var(&cfg.Model.MinSupport, "min-support", cfg.Model.MinSupport, "minimum itemset support fraction")
	fs.Float64Var(&cfg.Model.MinConfidence, "min-confidence", cfg.Model.MinConfidence, "minimum rule confidence")
	fs.Float64Var(&cfg.Model.MinLift, "min-lift", cfg.Model.MinLift, "minimum rule lift")
	fs.IntVar(&cfg.Model.TopK, "top-k", cfg.Model.TopK, "recommendations per user and item")
	fs.IntVar(&cfg.Model.ALSFactors, "als-factors", cfg.Model.ALSFactors, "latent factors")
	fs.Float64Var(&cfg.Model.ALSRegularization, "als-regularization", cfg.Model.ALSRegularization, "L2 regularization")
	fs.IntVar(&cfg.Model.ALSIterations, "als-iterations", cfg.Model.ALSIterations, "alternating sweeps")
	fs.IntVar(&cfg.Model.ALSWorkers, "als-workers", cfg.Model.ALSWorkers, "parallel solvers (0 = GOMAXPROCS)")
	fs.Int64Var(&cfg.Model.Seed, "seed", cfg.Model.Seed, "factor initialization seed")
	fs.IntVar(&cfg.Pipeline.EvaluationK, "evaluation-k", cfg.Pipeline.EvaluationK, "cutoff for the holdout report")
	fs.IntVar(&opts.sample, "sample", 5, "users shown in the recommendation sample")
	fs.BoolVar(&opts.asJSON, "json", false, "print the summary as JSON")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// summary is what the command prints.
type summary struct {
	RunID           string          `json:"run_id"`
	Orders          int             `json:"orders"`
	Rules           []ruleLine      `json:"top_rules"`
	Recommendations []recommendLine `json:"recommendations"`
	SkippedPivots   int64           `json:"skipped_pivots"`
	Evaluation      interface{}     `json:"evaluation,omitempty"`
}

type ruleLine struct {
	LHS        string  `json:"lhs"`
	RHS        string  `json:"rhs"`
	Support    float64 `json:"support"`
	Confidence float64 `json:"confidence"`
	Lift       float64 `json:"lift"`
}

type recommendLine struct {
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Score     float64 `json:"score"`
}

func summarize(res *pipeline.Result, sample int) summary {
	s := summary{
		RunID:           res.RunID,
		Orders:          len(res.Artifacts.SilverOrders),
		Rules:           []ruleLine{},
		Recommendations: []recommendLine{},
	}
	for i, r := range res.Artifacts.AssocRules {
		if i == 10 {
			break
		}
		s.Rules = append(s.Rules, ruleLine{
			LHS:        strings.Join(r.LHS, ","),
			RHS:        strings.Join(r.RHS, ","),
			Support:    r.Support,
			Confidence: r.Confidence,
			Lift:       r.Lift,
		})
	}

	// Rows are grouped by user in factor order.
	users := 0
	last := ""
	for _, row := range res.Artifacts.UserRecommendations {
		if row.UserID != last {
			if users == sample {
				break
			}
			users++
			last = row.UserID
		}
		line := recommendLine{UserID: row.UserID, ProductID: row.ProductID, Score: row.Score}
		if row.ProductName != nil {
			line.Name = *row.ProductName
		}
		s.Recommendations = append(s.Recommendations, line)
	}

	if res.Model.TrainReport != nil {
		s.SkippedPivots = res.Model.TrainReport.SkippedPivots
	}
	if res.Model.Evaluation != nil {
		s.Evaluation = res.Model.Evaluation
	}
	return s
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: opts.logLevel, Format: "console", Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, pipeline.Options{
		Sources:       opts.cfg.Sources,
		LakehouseRoot: opts.cfg.Lakehouse.Root,
		Model:         opts.cfg.Model,
		EvaluationK:   opts.cfg.Pipeline.EvaluationK,
	})
	if err != nil {
		return err
	}

	s := summarize(res, opts.sample)
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return printText(out, s, res)
}

func printText(out io.Writer, s summary, res *pipeline.Result) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s: %d order lines, %d rules, %d similarity rows\n\n",
		s.RunID, s.Orders, len(res.Artifacts.AssocRules), len(res.Artifacts.ItemSimilarity))

	fmt.Fprintln(tw, "LHS\tRHS\tSUPPORT\tCONFIDENCE\tLIFT")
	for _, r := range s.Rules {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%.3f\n", r.LHS, r.RHS, r.Support, r.Confidence, r.Lift)
	}

	fmt.Fprintln(tw, "\nUSER\tPRODUCT\tNAME\tSCORE")
	for _, r := range s.Recommendations {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\n", r.UserID, r.ProductID, r.Name, r.Score)
	}

	if ev := res.Model.Evaluation; ev != nil {
		fmt.Fprintf(tw, "\nholdout@%d over %d users: precision %.4f  recall %.4f  map %.4f\n",
			ev.K, ev.Users, ev.Precision, ev.Recall, ev.MAP)
	}
	if s.SkippedPivots > 0 {
		fmt.Fprintf(tw, "warning: %d near-singular pivots skipped during training\n", s.SkippedPivots)
	}
	return tw.Flush()
}
