// Package kernel provides the kernel-method family of the zoo: a
// Parzen-window classifier with a Gaussian (RBF) kernel.
package kernel

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/pkg/errors"
)

// RBFClassifier scores each class by the summed RBF kernel between the
// query and that class's training records, predicting the argmax. With
// standardized features the default gamma works across datasets.
type RBFClassifier struct {
	model.BaseEstimator

	gamma float64

	trainX   *mat.Dense
	trainY   []int
	nClasses int
}

// RBFOption configures an RBFClassifier.
type RBFOption func(*RBFClassifier)

// WithGamma sets the kernel width parameter.
func WithGamma(gamma float64) RBFOption {
	return func(rc *RBFClassifier) {
		rc.gamma = gamma
	}
}

// NewRBFClassifier creates a classifier with gamma=0.5.
func NewRBFClassifier(opts ...RBFOption) *RBFClassifier {
	rc := &RBFClassifier{gamma: 0.5}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Fit stores a copy of the training data.
func (rc *RBFClassifier) Fit(X, y mat.Matrix) error {
	n, f := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "RBFClassifier.Fit")
	}
	if yr != n {
		return errors.NewDimensionError("RBFClassifier.Fit", n, yr, 0)
	}
	if rc.gamma <= 0 {
		return errors.NewValueError("RBFClassifier.Fit", "gamma must be > 0")
	}

	rc.Reset()
	rc.trainX = mat.NewDense(n, f, nil)
	rc.trainX.Copy(X)
	rc.trainY = make([]int, n)
	rc.nClasses = 0
	for i := 0; i < n; i++ {
		rc.trainY[i] = int(y.At(i, 0))
		if rc.trainY[i]+1 > rc.nClasses {
			rc.nClasses = rc.trainY[i] + 1
		}
	}

	rc.SetFitted()
	return nil
}

// Predict returns the class with the highest kernel mass per row.
func (rc *RBFClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rc.IsFitted() {
		return nil, errors.NewNotFittedError("RBFClassifier", "Predict")
	}
	n, f := X.Dims()
	trainN, trainF := rc.trainX.Dims()
	if f != trainF {
		return nil, errors.NewDimensionError("RBFClassifier.Predict", trainF, f, 1)
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		scores := make([]float64, rc.nClasses)
		for t := 0; t < trainN; t++ {
			d := 0.0
			for j := 0; j < f; j++ {
				diff := X.At(i, j) - rc.trainX.At(t, j)
				d += diff * diff
			}
			scores[rc.trainY[t]] += math.Exp(-rc.gamma * d)
		}
		best := 0
		for c := 1; c < rc.nClasses; c++ {
			if scores[c] > scores[best] {
				best = c
			}
		}
		out.Set(i, 0, float64(best))
	}
	return out, nil
}

// GetParams returns the model's hyperparameters.
func (rc *RBFClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"gamma": rc.gamma,
	}
}
