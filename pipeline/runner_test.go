package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/dataset"
	"github.com/factoryml/effbench/dummy"
	"github.com/factoryml/effbench/eval"
	"github.com/factoryml/effbench/pkg/errors"
)

// fitFailer breaks during training.
type fitFailer struct{}

func (f *fitFailer) Fit(X, y mat.Matrix) error                 { return errors.New("synthetic fit failure") }
func (f *fitFailer) Predict(X mat.Matrix) (mat.Matrix, error)  { return nil, errors.New("never fitted") }
func (f *fitFailer) GetParams() map[string]interface{}         { return map[string]interface{}{} }

// predictFailer trains fine and breaks at prediction time.
type predictFailer struct{}

func (p *predictFailer) Fit(X, y mat.Matrix) error                { return nil }
func (p *predictFailer) Predict(X mat.Matrix) (mat.Matrix, error) { return nil, errors.New("synthetic predict failure") }
func (p *predictFailer) GetParams() map[string]interface{}        { return map[string]interface{}{} }

// twoClassDataset builds n records with two well separated clusters.
func twoClassDataset(n int) *dataset.Dataset {
	X := mat.NewDense(n, 3, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		base := 0.0
		if i%2 == 1 {
			base = 10.0
			y[i] = 1
		}
		X.Set(i, 0, base+float64(i)*0.01)
		X.Set(i, 1, base+1)
		X.Set(i, 2, float64(i))
	}
	return dataset.New(X, y)
}

var twoClasses = []string{"Efficient", "Inefficient"}

func TestRunPartialFailureIsolation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("baseline", func() model.Classifier { return dummy.NewMajorityClassifier() }))
	require.NoError(t, r.Register("broken", func() model.Classifier { return &fitFailer{} }))
	require.NoError(t, r.Register("knn", func() model.Classifier { return dummy.NewMajorityClassifier() }))

	p := New(r)
	result, err := p.Run(context.Background(), twoClassDataset(100), twoClasses)
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	evaluated := 0
	for _, rec := range result.Records {
		if rec.Evaluated() {
			evaluated++
		}
	}
	assert.Equal(t, 2, evaluated)

	assert.Equal(t, StatePredicted, result.States["baseline"])
	assert.Equal(t, StateFitFailed, result.States["broken"])
	assert.Equal(t, StatePredicted, result.States["knn"])

	// Failed model keeps its slot in the table, sorted last.
	require.Len(t, result.Table, 3)
	last := result.Table[2]
	assert.Equal(t, "broken", last.Model)
	assert.Contains(t, last.Status, "failed")
	var trainErr *errors.TrainingError
	assert.True(t, errors.As(last.Err, &trainErr))
}

func TestRunPredictFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("flaky", func() model.Classifier { return &predictFailer{} }))

	p := New(r)
	result, err := p.Run(context.Background(), twoClassDataset(50), twoClasses)
	require.NoError(t, err)

	assert.Equal(t, StatePredictFailed, result.States["flaky"])
	var predErr *errors.PredictError
	assert.True(t, errors.As(result.Records[0].Err, &predErr))
}

func TestRunMajorityBaseline(t *testing.T) {
	d := twoClassDataset(100)
	p := New(DefaultRegistry(),
		WithModels(ModelMajority),
		WithTrainFraction(0.8),
		WithSeed(42),
	)

	result, err := p.Run(context.Background(), d, twoClasses)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	require.True(t, rec.Evaluated())
	assert.Equal(t, 80, result.Split.Train.Len())
	assert.Equal(t, 20, result.Split.Test.Len())

	// Every prediction is the single majority class, so accuracy equals
	// that class's share of the test subset and all other prediction
	// columns are zero.
	pred := rec.YPred[0]
	share := 0
	for i, c := range rec.YPred {
		require.Equal(t, pred, c, "prediction %d differs", i)
		if rec.YTrue[i] == c {
			share++
		}
	}
	assert.InDelta(t, float64(share)/20.0, rec.Accuracy, 1e-12)
	for j := range twoClasses {
		if j == pred {
			continue
		}
		for i := range twoClasses {
			assert.Zero(t, rec.Confusion.Counts[i][j])
		}
	}
}

func TestRunDeterminism(t *testing.T) {
	d := twoClassDataset(80)
	opts := []Option{WithSeed(7), WithWorkers(4)}

	a, err := New(DefaultRegistry(), opts...).Run(context.Background(), d, twoClasses)
	require.NoError(t, err)
	b, err := New(DefaultRegistry(), opts...).Run(context.Background(), d, twoClasses)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.Split.Train.X, b.Split.Train.X))
	require.Len(t, b.Records, len(a.Records))
	for i := range a.Records {
		assert.Equal(t, a.Records[i].Model, b.Records[i].Model)
		assert.Equal(t, a.Records[i].Status, b.Records[i].Status)
		assert.Equal(t, a.Records[i].YPred, b.Records[i].YPred)
		assert.Equal(t, a.Records[i].Accuracy, b.Records[i].Accuracy)
	}
}

func TestRunScalingDoesNotChangeLabels(t *testing.T) {
	d := twoClassDataset(60)

	scaled, err := New(DefaultRegistry(), WithModels(ModelMajority)).Run(context.Background(), d, twoClasses)
	require.NoError(t, err)
	raw, err := New(DefaultRegistry(), WithModels(ModelMajority), WithScaling(false)).Run(context.Background(), d, twoClasses)
	require.NoError(t, err)

	// The majority baseline ignores features entirely, so scaling must not
	// move its numbers.
	assert.Equal(t, scaled.Records[0].YPred, raw.Records[0].YPred)
	assert.Equal(t, scaled.Records[0].Accuracy, raw.Records[0].Accuracy)
}

func TestRunConfigurationErrors(t *testing.T) {
	d := twoClassDataset(40)

	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "unknown model name",
			run: func() error {
				_, err := New(DefaultRegistry(), WithModels("no_such_model")).Run(context.Background(), d, twoClasses)
				return err
			},
		},
		{
			name: "unknown sort metric",
			run: func() error {
				_, err := New(DefaultRegistry(), WithSortMetric("recall")).Run(context.Background(), d, twoClasses)
				return err
			},
		},
		{
			name: "empty class domain",
			run: func() error {
				_, err := New(DefaultRegistry()).Run(context.Background(), d, nil)
				return err
			},
		},
		{
			name: "invalid train fraction",
			run: func() error {
				_, err := New(DefaultRegistry(), WithTrainFraction(1.5)).Run(context.Background(), d, twoClasses)
				return err
			},
		},
		{
			name: "empty registry",
			run: func() error {
				_, err := New(NewRegistry()).Run(context.Background(), d, twoClasses)
				return err
			},
		},
		{
			name: "empty dataset",
			run: func() error {
				_, err := New(DefaultRegistry()).Run(context.Background(), dataset.New(nil, nil), twoClasses)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			var cfgErr *errors.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %T: %v", err, err)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(DefaultRegistry(), WithModels(ModelMajority, ModelKNN)).Run(ctx, twoClassDataset(40), twoClasses)
	require.NoError(t, err)

	// Models that never started are recorded as skipped, not dropped.
	require.Len(t, result.Records, 2)
	for _, rec := range result.Records {
		assert.False(t, rec.Evaluated())
	}
	for _, state := range result.States {
		assert.Equal(t, StateSkipped, state)
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("m", func() model.Classifier { return dummy.NewMajorityClassifier() }))
	assert.Error(t, r.Register("m", func() model.Classifier { return dummy.NewMajorityClassifier() }))
	assert.Equal(t, []string{"m"}, r.Names())
}

func TestDefaultRegistryEndToEnd(t *testing.T) {
	result, err := New(DefaultRegistry(), WithWorkers(2)).Run(context.Background(), twoClassDataset(120), twoClasses)
	require.NoError(t, err)
	require.Len(t, result.Records, DefaultRegistry().Len())

	for _, rec := range result.Records {
		require.True(t, rec.Evaluated(), "model %s: %s", rec.Model, rec.Status)
		assert.Len(t, rec.YPred, result.Split.Test.Len())
	}

	// Clusters are well separated: every real model must beat coin-flip and
	// the table winner must be at least as good as the majority baseline.
	table := result.Table
	var baseline *eval.Record
	for _, rec := range result.Records {
		if rec.Model == ModelMajority {
			baseline = rec
		}
	}
	require.NotNil(t, baseline)
	assert.GreaterOrEqual(t, table[0].Accuracy, baseline.Accuracy)
}
