// Package dummy provides trivial baseline classifiers. A real model that
// cannot beat the majority baseline is not learning anything.
package dummy

import (
	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/pkg/errors"
)

// MajorityClassifier always predicts the most frequent training class.
// Ties resolve to the lowest class index.
type MajorityClassifier struct {
	model.BaseEstimator

	class int
}

// NewMajorityClassifier creates an unfit baseline.
func NewMajorityClassifier() *MajorityClassifier {
	return &MajorityClassifier{}
}

// Fit records the majority class of y.
func (mc *MajorityClassifier) Fit(X, y mat.Matrix) error {
	n, _ := y.Dims()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MajorityClassifier.Fit")
	}

	mc.Reset()
	counts := make(map[int]int)
	maxClass := 0
	for i := 0; i < n; i++ {
		c := int(y.At(i, 0))
		counts[c]++
		if c > maxClass {
			maxClass = c
		}
	}
	mc.class = 0
	best := -1
	for c := 0; c <= maxClass; c++ {
		if counts[c] > best {
			best = counts[c]
			mc.class = c
		}
	}

	mc.SetFitted()
	return nil
}

// Predict returns the majority class for every row.
func (mc *MajorityClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !mc.IsFitted() {
		return nil, errors.NewNotFittedError("MajorityClassifier", "Predict")
	}
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, float64(mc.class))
	}
	return out, nil
}

// GetParams returns an empty map; the baseline has no hyperparameters.
func (mc *MajorityClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}
