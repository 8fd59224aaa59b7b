package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/factoryml/effbench/eval"
	"github.com/factoryml/effbench/pkg/log"
	"github.com/factoryml/effbench/preprocessing"
)

// Config is the pipeline's configuration surface. Every field has a
// default; construct through New with Options.
type Config struct {
	// TrainFraction is the share of records used for training, in (0, 1).
	TrainFraction float64

	// Seed drives the split shuffle and is logged for reproducibility.
	Seed int64

	// Stratify enables label-proportional splitting. Off by default.
	Stratify bool

	// Scaling toggles feature normalization.
	Scaling bool

	// Scaler is the normalization transform used when Scaling is on. A
	// fresh one should be supplied per run; it is refit every run anyway.
	Scaler preprocessing.Scaler

	// Models selects and orders the models to run. Empty means every
	// registered model in registration order.
	Models []string

	// SortMetric orders the comparison table. Accuracy by default.
	SortMetric string

	// Workers bounds parallel model execution. 0 or 1 runs sequentially.
	Workers int

	// Logger receives structured progress events.
	Logger zerolog.Logger
}

func defaultConfig() Config {
	return Config{
		TrainFraction: 0.8,
		Seed:          42,
		Scaling:       true,
		SortMetric:    eval.MetricAccuracy,
		Workers:       1,
		Logger:        log.Nop(),
	}
}

// Option configures a Pipeline.
type Option func(*Config)

// WithTrainFraction sets the training share of the split.
func WithTrainFraction(f float64) Option {
	return func(c *Config) {
		c.TrainFraction = f
	}
}

// WithSeed fixes the split randomness.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithStratify enables label-proportional splitting.
func WithStratify(stratify bool) Option {
	return func(c *Config) {
		c.Stratify = stratify
	}
}

// WithScaling toggles feature normalization.
func WithScaling(enabled bool) Option {
	return func(c *Config) {
		c.Scaling = enabled
	}
}

// WithScaler replaces the default StandardScaler.
func WithScaler(s preprocessing.Scaler) Option {
	return func(c *Config) {
		c.Scaler = s
	}
}

// WithModels restricts the run to the named models, in the given order.
func WithModels(names ...string) Option {
	return func(c *Config) {
		c.Models = names
	}
}

// WithSortMetric orders the comparison table by the named metric.
func WithSortMetric(metric string) Option {
	return func(c *Config) {
		c.SortMetric = metric
	}
}

// WithWorkers bounds parallel model execution.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithLogger sets the structured logger for the run.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
