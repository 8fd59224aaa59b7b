// Package pipeline wires the split, scale, train, predict and evaluate
// steps into one controlled, repeatable protocol. One badly behaved model
// never aborts the comparison of the rest.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/parallel"
	"github.com/factoryml/effbench/dataset"
	"github.com/factoryml/effbench/eval"
	"github.com/factoryml/effbench/pkg/errors"
	"github.com/factoryml/effbench/pkg/log"
	"github.com/factoryml/effbench/preprocessing"
)

// ModelState labels where in its lifecycle a model ended the run.
type ModelState string

const (
	// StateUnfit is the initial state of every registered model.
	StateUnfit ModelState = "unfit"
	// StateFitting means Fit was in progress when observed.
	StateFitting ModelState = "fitting"
	// StateFit means Fit completed and Predict has not.
	StateFit ModelState = "fit"
	// StateFitFailed means Fit returned an error; the model is excluded
	// from metrics but keeps a failed record in the table.
	StateFitFailed ModelState = "fit_failed"
	// StatePredictFailed means a fitted model failed to predict.
	StatePredictFailed ModelState = "predict_failed"
	// StatePredicted is the terminal success state.
	StatePredicted ModelState = "predicted"
	// StateSkipped means the run was cancelled before the model started.
	StateSkipped ModelState = "skipped"
)

// Result is the outcome of one pipeline run.
type Result struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// Classes is the fixed label domain shared by every record.
	Classes []string

	// Split is the partition the run used, kept for inspection.
	Split *dataset.Split

	// Records holds one evaluation record per selected model in selection
	// order.
	Records []*eval.Record

	// Table is Records sorted into the comparison table.
	Table []*eval.Record

	// States maps model name to its terminal lifecycle state.
	States map[string]ModelState
}

// Pipeline runs every selected model of a registry under one train/test
// protocol.
type Pipeline struct {
	registry *Registry
	cfg      Config
}

// New builds a pipeline over registry with the given options applied to
// the default configuration.
func New(registry *Registry, opts ...Option) *Pipeline {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pipeline{registry: registry, cfg: cfg}
}

// Run executes the full protocol on d, whose labels are encoded over the
// classes domain. Configuration problems abort before any training starts;
// per-model failures are recorded and the remaining models continue.
func (p *Pipeline) Run(ctx context.Context, d *dataset.Dataset, classes []string) (*Result, error) {
	selected, err := p.selectModels()
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errors.NewConfigurationError("classes", "label domain must not be empty", classes)
	}
	switch p.cfg.SortMetric {
	case eval.MetricAccuracy, eval.MetricMacroF1:
	default:
		return nil, errors.NewConfigurationError("sort_metric", "unknown comparison metric", p.cfg.SortMetric)
	}

	split, err := dataset.TrainTestSplit(d, dataset.SplitOptions{
		TrainFraction: p.cfg.TrainFraction,
		Seed:          p.cfg.Seed,
		Stratify:      p.cfg.Stratify,
	})
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := p.cfg.Logger.With().Str(log.RunIDKey, runID).Logger()
	logger.Info().
		Int(log.SamplesKey, d.Len()).
		Int(log.FeaturesKey, d.NumFeatures()).
		Int(log.ClassesKey, len(classes)).
		Int("n_train", split.Train.Len()).
		Int("n_test", split.Test.Len()).
		Int64("seed", p.cfg.Seed).
		Bool("scaling", p.cfg.Scaling).
		Bool("stratify", p.cfg.Stratify).
		Msg("pipeline run starting")

	train, test, err := p.scale(split)
	if err != nil {
		return nil, err
	}

	records := make([]*eval.Record, len(selected))
	states := make([]ModelState, len(selected))
	for i := range states {
		states[i] = StateUnfit
	}

	parallel.ForEach(ctx, len(selected), p.cfg.Workers, func(i int) {
		records[i], states[i] = p.runModel(ctx, logger, selected[i], i, train, test, classes)
	})

	result := &Result{
		RunID:   runID,
		Classes: classes,
		Split:   split,
		States:  make(map[string]ModelState, len(selected)),
	}
	for i, entry := range selected {
		if records[i] == nil {
			// Cancelled before the model's task started.
			records[i] = eval.NewFailedRecord(entry.name, i, errors.New("skipped: run cancelled before model started"))
			states[i] = StateSkipped
		}
		result.Records = append(result.Records, records[i])
		result.States[entry.name] = states[i]
	}
	result.Table = eval.Compare(result.Records, p.cfg.SortMetric)

	logger.Info().Int("n_models", len(selected)).Msg("pipeline run finished")
	return result, nil
}

func (p *Pipeline) selectModels() ([]registryEntry, error) {
	if p.registry == nil || p.registry.Len() == 0 {
		return nil, errors.NewConfigurationError("registry", "no models registered", nil)
	}
	if len(p.cfg.Models) == 0 {
		return p.registry.entries, nil
	}
	selected := make([]registryEntry, 0, len(p.cfg.Models))
	for _, name := range p.cfg.Models {
		entry, ok := p.registry.lookup(name)
		if !ok {
			return nil, errors.NewConfigurationError("models", errors.ErrUnknownModel.Error(), name)
		}
		selected = append(selected, entry)
	}
	return selected, nil
}

// scale fits the scaler on the training subset only and applies the same
// parameters to both subsets. Disabled scaling passes the split through
// untouched.
func (p *Pipeline) scale(split *dataset.Split) (*dataset.Dataset, *dataset.Dataset, error) {
	if !p.cfg.Scaling {
		return split.Train, split.Test, nil
	}
	scaler := p.cfg.Scaler
	if scaler == nil {
		scaler = preprocessing.NewStandardScaler()
	}
	if err := scaler.Fit(split.Train.X); err != nil {
		return nil, nil, err
	}
	trainX, err := scaler.Transform(split.Train.X)
	if err != nil {
		return nil, nil, err
	}
	testX, err := scaler.Transform(split.Test.X)
	if err != nil {
		return nil, nil, err
	}
	return split.Train.WithFeatures(trainX), split.Test.WithFeatures(testX), nil
}

// runModel takes one model through fit, predict and evaluate, translating
// every failure into a failed record instead of an error return.
func (p *Pipeline) runModel(ctx context.Context, logger zerolog.Logger, entry registryEntry, order int, train, test *dataset.Dataset, classes []string) (*eval.Record, ModelState) {
	mlog := log.WithModel(logger, entry.name)
	clf := entry.factory()
	mlog.Debug().Interface("params", clf.GetParams()).Msg("model constructed")

	fitStart := time.Now()
	if err := clf.Fit(train.X, train.Labels()); err != nil {
		terr := errors.NewTrainingError(entry.name, err)
		mlog.Warn().Err(terr).Msg("fit failed")
		return eval.NewFailedRecord(entry.name, order, terr), StateFitFailed
	}
	fitDur := time.Since(fitStart)

	// Cooperative cancellation boundary between fit and predict.
	select {
	case <-ctx.Done():
		mlog.Warn().Msg("cancelled after fit")
		return eval.NewFailedRecord(entry.name, order, errors.Wrap(ctx.Err(), "skipped after fit")), StateSkipped
	default:
	}

	predStart := time.Now()
	predicted, err := clf.Predict(test.X)
	if err != nil {
		perr := errors.NewPredictError(entry.name, err)
		mlog.Warn().Err(perr).Msg("predict failed")
		return eval.NewFailedRecord(entry.name, order, perr), StatePredictFailed
	}
	predDur := time.Since(predStart)

	record, err := eval.Evaluate(entry.name, order, test.Y, matToInts(predicted), classes)
	if err != nil {
		mlog.Warn().Err(err).Msg("evaluation failed")
		return eval.NewFailedRecord(entry.name, order, err), StatePredicted
	}

	mlog.Info().
		Dur("fit_duration", fitDur).
		Dur("predict_duration", predDur).
		Float64("accuracy", record.Accuracy).
		Float64("macro_f1", record.MacroF1).
		Msg("model evaluated")
	return record, StatePredicted
}

func matToInts(m mat.Matrix) []int {
	n, _ := m.Dims()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = int(m.At(i, 0))
	}
	return out
}
