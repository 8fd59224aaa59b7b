// Command effbench trains the registered classifiers on a manufacturing
// efficiency dataset and prints the comparison table. Without a CSV it
// runs on seeded synthetic sensor data.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"

	"github.com/factoryml/effbench/dataset"
	"github.com/factoryml/effbench/output"
	"github.com/factoryml/effbench/pipeline"
	"github.com/factoryml/effbench/pkg/log"
)

type cliArgs struct {
	CSV           string   `arg:"--csv" help:"path to a CSV dataset; omit to use synthetic data"`
	Target        string   `arg:"--target" default:"Efficiency_Status" help:"label column name in the CSV"`
	Synthetic     int      `arg:"--synthetic" default:"1000" help:"number of synthetic records when no CSV is given"`
	TrainFraction float64  `arg:"--train-fraction" default:"0.8" help:"share of records used for training"`
	Seed          int64    `arg:"--seed" default:"42" help:"random seed for the split"`
	NoScale       bool     `arg:"--no-scale" help:"disable feature standardization"`
	Stratify      bool     `arg:"--stratify" help:"stratify the split by label"`
	Models        []string `arg:"--models" help:"models to run, in order; default all registered"`
	SortMetric    string   `arg:"--sort" default:"accuracy" help:"comparison sort metric (accuracy or macro_f1)"`
	Workers       int      `arg:"--workers" default:"1" help:"parallel model workers"`
	HeatmapDir    string   `arg:"--heatmap-dir" help:"write per-model confusion heatmap PNGs into this directory"`
	LogLevel      string   `arg:"--log-level" default:"info" help:"debug, info, warn or error"`
}

func main() {
	var args cliArgs
	arg.MustParse(&args)

	logger := log.Setup(os.Stderr, args.LogLevel, true)

	var (
		data    *dataset.Dataset
		classes []string
	)
	if args.CSV != "" {
		f, err := os.Open(args.CSV)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot open CSV")
		}
		table, err := dataset.LoadCSV(f, args.Target)
		_ = f.Close()
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot load CSV")
		}
		enc := dataset.NewLabelEncoder()
		data, err = table.Encode(enc)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot encode labels")
		}
		classes = enc.Classes()
	} else {
		var (
			enc *dataset.LabelEncoder
			err error
		)
		data, enc, err = dataset.Synthetic(args.Synthetic, args.Seed)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot generate synthetic data")
		}
		classes = enc.Classes()
		logger.Info().Int("n_records", args.Synthetic).Msg("using synthetic sensor data")
	}

	opts := []pipeline.Option{
		pipeline.WithTrainFraction(args.TrainFraction),
		pipeline.WithSeed(args.Seed),
		pipeline.WithScaling(!args.NoScale),
		pipeline.WithStratify(args.Stratify),
		pipeline.WithSortMetric(args.SortMetric),
		pipeline.WithWorkers(args.Workers),
		pipeline.WithLogger(logger),
	}
	if len(args.Models) > 0 {
		opts = append(opts, pipeline.WithModels(args.Models...))
	}

	p := pipeline.New(pipeline.DefaultRegistry(), opts...)
	result, err := p.Run(context.Background(), data, classes)
	if err != nil {
		logger.Fatal().Err(err).Msg("pipeline failed")
	}

	if err := output.WriteComparison(os.Stdout, result.Table); err != nil {
		logger.Fatal().Err(err).Msg("cannot write comparison table")
	}
	fmt.Println()
	for _, rec := range result.Table {
		if !rec.Evaluated() {
			continue
		}
		if err := output.WritePerClass(os.Stdout, rec); err != nil {
			logger.Fatal().Err(err).Msg("cannot write per-class metrics")
		}
		if err := output.WriteConfusionMatrix(os.Stdout, rec.Confusion); err != nil {
			logger.Fatal().Err(err).Msg("cannot write confusion matrix")
		}
		fmt.Println()

		if args.HeatmapDir != "" {
			path := filepath.Join(args.HeatmapDir, rec.Model+"_confusion.png")
			if err := output.SaveConfusionHeatmap(rec.Confusion, rec.Model, path); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("cannot save heatmap")
			}
		}
	}
}
