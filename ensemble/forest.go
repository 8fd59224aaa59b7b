// Package ensemble provides the tree-ensemble and boosting classifiers of
// the model zoo, both built on the CART tree.
package ensemble

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/core/parallel"
	"github.com/factoryml/effbench/pkg/errors"
	"github.com/factoryml/effbench/tree"
)

// RandomForestClassifier bags decision trees grown on bootstrap samples
// with sqrt(F) feature subsampling and predicts by majority vote.
type RandomForestClassifier struct {
	model.BaseEstimator

	nEstimators int
	maxDepth    int
	seed        int64

	trees    []*tree.DecisionTreeClassifier
	nClasses int
}

// ForestOption configures a RandomForestClassifier.
type ForestOption func(*RandomForestClassifier)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) ForestOption {
	return func(rf *RandomForestClassifier) {
		rf.nEstimators = n
	}
}

// WithForestMaxDepth limits the depth of each tree. <= 0 is unlimited.
func WithForestMaxDepth(depth int) ForestOption {
	return func(rf *RandomForestClassifier) {
		rf.maxDepth = depth
	}
}

// WithForestSeed fixes bootstrap and feature subsampling randomness.
func WithForestSeed(seed int64) ForestOption {
	return func(rf *RandomForestClassifier) {
		rf.seed = seed
	}
}

// NewRandomForestClassifier creates a forest of 100 unlimited-depth trees,
// the configuration the efficiency comparison always ran with.
func NewRandomForestClassifier(opts ...ForestOption) *RandomForestClassifier {
	rf := &RandomForestClassifier{
		nEstimators: 100,
		seed:        42,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// Fit grows the forest. Bootstrap samples and per-tree seeds are drawn
// sequentially from the forest seed before the trees fit in parallel, so
// results do not depend on goroutine scheduling.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	n, f := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "RandomForestClassifier.Fit")
	}
	if yr != n {
		return errors.NewDimensionError("RandomForestClassifier.Fit", n, yr, 0)
	}
	if rf.nEstimators < 1 {
		return errors.NewValueError("RandomForestClassifier.Fit", "n_estimators must be >= 1")
	}

	rf.Reset()
	rf.nClasses = 0
	for i := 0; i < n; i++ {
		if c := int(y.At(i, 0)) + 1; c > rf.nClasses {
			rf.nClasses = c
		}
	}

	maxFeatures := int(math.Max(1, math.Round(math.Sqrt(float64(f)))))
	r := rand.New(rand.NewPCG(uint64(rf.seed), uint64(rf.seed)))

	samples := make([][2]*mat.Dense, rf.nEstimators)
	seeds := make([]int64, rf.nEstimators)
	for t := 0; t < rf.nEstimators; t++ {
		bx := mat.NewDense(n, f, nil)
		by := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			src := r.IntN(n)
			for j := 0; j < f; j++ {
				bx.Set(i, j, X.At(src, j))
			}
			by.Set(i, 0, y.At(src, 0))
		}
		samples[t] = [2]*mat.Dense{bx, by}
		seeds[t] = int64(r.Uint64() >> 1)
	}

	rf.trees = make([]*tree.DecisionTreeClassifier, rf.nEstimators)
	errs := make([]error, rf.nEstimators)
	parallel.Parallelize(rf.nEstimators, func(start, end int) {
		for t := start; t < end; t++ {
			dt := tree.NewDecisionTreeClassifier(
				tree.WithMaxDepth(rf.maxDepth),
				tree.WithMaxFeatures(maxFeatures),
				tree.WithSeed(seeds[t]),
			)
			errs[t] = dt.Fit(samples[t][0], samples[t][1])
			rf.trees[t] = dt
		}
	})
	for _, err := range errs {
		if err != nil {
			return errors.Wrap(err, "RandomForestClassifier.Fit")
		}
	}

	rf.SetFitted()
	return nil
}

// Predict returns the majority vote across trees. Ties resolve to the
// lowest class index.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "Predict")
	}
	n, _ := X.Dims()

	votes := make([][]int, n)
	for i := range votes {
		votes[i] = make([]int, rf.nClasses)
	}
	for _, dt := range rf.trees {
		pred, err := dt.Predict(X)
		if err != nil {
			return nil, errors.Wrap(err, "RandomForestClassifier.Predict")
		}
		for i := 0; i < n; i++ {
			votes[i][int(pred.At(i, 0))]++
		}
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best := 0
		for c := 1; c < rf.nClasses; c++ {
			if votes[i][c] > votes[i][best] {
				best = c
			}
		}
		out.Set(i, 0, float64(best))
	}
	return out, nil
}

// GetParams returns the forest's hyperparameters.
func (rf *RandomForestClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators": rf.nEstimators,
		"max_depth":    rf.maxDepth,
		"seed":         rf.seed,
	}
}
