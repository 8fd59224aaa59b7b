package ensemble

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/pkg/errors"
	"github.com/factoryml/effbench/tree"
)

// AdaBoostClassifier implements SAMME boosting over decision stumps.
// Sample weighting is realized by weighted resampling of the training set,
// so the base tree needs no weighted-impurity support.
type AdaBoostClassifier struct {
	model.BaseEstimator

	nEstimators  int
	learningRate float64
	seed         int64

	stumps   []*tree.DecisionTreeClassifier
	alphas   []float64
	nClasses int
}

// BoostOption configures an AdaBoostClassifier.
type BoostOption func(*AdaBoostClassifier)

// WithBoostNEstimators sets the number of boosting rounds.
func WithBoostNEstimators(n int) BoostOption {
	return func(ab *AdaBoostClassifier) {
		ab.nEstimators = n
	}
}

// WithLearningRate scales each round's contribution.
func WithLearningRate(lr float64) BoostOption {
	return func(ab *AdaBoostClassifier) {
		ab.learningRate = lr
	}
}

// WithBoostSeed fixes the resampling randomness.
func WithBoostSeed(seed int64) BoostOption {
	return func(ab *AdaBoostClassifier) {
		ab.seed = seed
	}
}

// NewAdaBoostClassifier creates a booster with 50 rounds and learning rate
// 1.0.
func NewAdaBoostClassifier(opts ...BoostOption) *AdaBoostClassifier {
	ab := &AdaBoostClassifier{
		nEstimators:  50,
		learningRate: 1.0,
		seed:         42,
	}
	for _, opt := range opts {
		opt(ab)
	}
	return ab
}

// Fit runs the boosting rounds. Rounds whose weighted error is no better
// than random guessing stop the loop early; at least one stump is always
// kept.
func (ab *AdaBoostClassifier) Fit(X, y mat.Matrix) error {
	n, f := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "AdaBoostClassifier.Fit")
	}
	if yr != n {
		return errors.NewDimensionError("AdaBoostClassifier.Fit", n, yr, 0)
	}
	if ab.nEstimators < 1 {
		return errors.NewValueError("AdaBoostClassifier.Fit", "n_estimators must be >= 1")
	}

	ab.Reset()
	ab.stumps = nil
	ab.alphas = nil

	labels := make([]int, n)
	ab.nClasses = 0
	for i := 0; i < n; i++ {
		labels[i] = int(y.At(i, 0))
		if labels[i]+1 > ab.nClasses {
			ab.nClasses = labels[i] + 1
		}
	}
	k := float64(ab.nClasses)
	if ab.nClasses < 2 {
		// Degenerate single-class input: one stump predicting it.
		stump := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(1))
		if err := stump.Fit(X, y); err != nil {
			return errors.Wrap(err, "AdaBoostClassifier.Fit")
		}
		ab.stumps = []*tree.DecisionTreeClassifier{stump}
		ab.alphas = []float64{1}
		ab.SetFitted()
		return nil
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	r := rand.New(rand.NewPCG(uint64(ab.seed), uint64(ab.seed)))

	for round := 0; round < ab.nEstimators; round++ {
		bx, by := resample(X, y, weights, r, f)
		stump := tree.NewDecisionTreeClassifier(
			tree.WithMaxDepth(1),
			tree.WithSeed(int64(round)),
		)
		if err := stump.Fit(bx, by); err != nil {
			return errors.Wrap(err, "AdaBoostClassifier.Fit")
		}

		pred, err := stump.Predict(X)
		if err != nil {
			return errors.Wrap(err, "AdaBoostClassifier.Fit")
		}

		weightedErr := 0.0
		for i := 0; i < n; i++ {
			if int(pred.At(i, 0)) != labels[i] {
				weightedErr += weights[i]
			}
		}

		if weightedErr <= 0 {
			// Perfect stump dominates the vote; nothing left to reweight.
			ab.stumps = append(ab.stumps, stump)
			ab.alphas = append(ab.alphas, 10)
			break
		}
		if weightedErr >= 1-1/k {
			if len(ab.stumps) == 0 {
				ab.stumps = append(ab.stumps, stump)
				ab.alphas = append(ab.alphas, 1)
			}
			break
		}

		alpha := ab.learningRate * (math.Log((1-weightedErr)/weightedErr) + math.Log(k-1))
		ab.stumps = append(ab.stumps, stump)
		ab.alphas = append(ab.alphas, alpha)

		total := 0.0
		for i := 0; i < n; i++ {
			if int(pred.At(i, 0)) != labels[i] {
				weights[i] *= math.Exp(alpha)
			}
			total += weights[i]
		}
		for i := range weights {
			weights[i] /= total
		}
	}

	ab.SetFitted()
	return nil
}

// resample draws a weighted bootstrap sample.
func resample(X, y mat.Matrix, weights []float64, r *rand.Rand, f int) (*mat.Dense, *mat.Dense) {
	n := len(weights)
	cdf := make([]float64, n)
	acc := 0.0
	for i, w := range weights {
		acc += w
		cdf[i] = acc
	}

	bx := mat.NewDense(n, f, nil)
	by := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		u := r.Float64() * acc
		src := searchCDF(cdf, u)
		for j := 0; j < f; j++ {
			bx.Set(i, j, X.At(src, j))
		}
		by.Set(i, 0, y.At(src, 0))
	}
	return bx, by
}

func searchCDF(cdf []float64, u float64) int {
	lo, hi := 0, len(cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cdf[mid] < u {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Predict accumulates each stump's alpha behind its predicted class and
// returns the argmax per row.
func (ab *AdaBoostClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !ab.IsFitted() {
		return nil, errors.NewNotFittedError("AdaBoostClassifier", "Predict")
	}
	n, _ := X.Dims()

	scores := make([][]float64, n)
	for i := range scores {
		scores[i] = make([]float64, ab.nClasses)
	}
	for s, stump := range ab.stumps {
		pred, err := stump.Predict(X)
		if err != nil {
			return nil, errors.Wrap(err, "AdaBoostClassifier.Predict")
		}
		for i := 0; i < n; i++ {
			scores[i][int(pred.At(i, 0))] += ab.alphas[s]
		}
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best := 0
		for c := 1; c < ab.nClasses; c++ {
			if scores[i][c] > scores[i][best] {
				best = c
			}
		}
		out.Set(i, 0, float64(best))
	}
	return out, nil
}

// GetParams returns the booster's hyperparameters.
func (ab *AdaBoostClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":  ab.nEstimators,
		"learning_rate": ab.learningRate,
		"seed":          ab.seed,
	}
}
