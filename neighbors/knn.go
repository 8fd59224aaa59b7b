// Package neighbors provides the instance-based family of the zoo:
// k-nearest-neighbors classification.
package neighbors

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/pkg/errors"
)

// KNNClassifier predicts by majority vote among the k training records
// closest in Euclidean distance. Fit only memorizes the training set.
type KNNClassifier struct {
	model.BaseEstimator

	k int

	trainX   *mat.Dense
	trainY   []int
	nClasses int
}

// KNNOption configures a KNNClassifier.
type KNNOption func(*KNNClassifier)

// WithK sets the neighbor count.
func WithK(k int) KNNOption {
	return func(knn *KNNClassifier) {
		knn.k = k
	}
}

// NewKNNClassifier creates a classifier with k=5.
func NewKNNClassifier(opts ...KNNOption) *KNNClassifier {
	knn := &KNNClassifier{k: 5}
	for _, opt := range opts {
		opt(knn)
	}
	return knn
}

// Fit stores a copy of the training data.
func (knn *KNNClassifier) Fit(X, y mat.Matrix) error {
	n, f := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "KNNClassifier.Fit")
	}
	if yr != n {
		return errors.NewDimensionError("KNNClassifier.Fit", n, yr, 0)
	}
	if knn.k < 1 {
		return errors.NewValueError("KNNClassifier.Fit", "k must be >= 1")
	}

	knn.Reset()
	knn.trainX = mat.NewDense(n, f, nil)
	knn.trainX.Copy(X)
	knn.trainY = make([]int, n)
	knn.nClasses = 0
	for i := 0; i < n; i++ {
		knn.trainY[i] = int(y.At(i, 0))
		if knn.trainY[i]+1 > knn.nClasses {
			knn.nClasses = knn.trainY[i] + 1
		}
	}

	knn.SetFitted()
	return nil
}

// Predict votes among the k nearest training records. Distance ties keep
// training order; vote ties resolve to the lowest class index.
func (knn *KNNClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !knn.IsFitted() {
		return nil, errors.NewNotFittedError("KNNClassifier", "Predict")
	}
	n, f := X.Dims()
	trainN, trainF := knn.trainX.Dims()
	if f != trainF {
		return nil, errors.NewDimensionError("KNNClassifier.Predict", trainF, f, 1)
	}

	k := knn.k
	if k > trainN {
		k = trainN
	}

	out := mat.NewDense(n, 1, nil)
	type neighbor struct {
		dist  float64
		index int
	}
	for i := 0; i < n; i++ {
		nearest := make([]neighbor, trainN)
		for t := 0; t < trainN; t++ {
			d := 0.0
			for j := 0; j < f; j++ {
				diff := X.At(i, j) - knn.trainX.At(t, j)
				d += diff * diff
			}
			nearest[t] = neighbor{dist: d, index: t}
		}
		sort.SliceStable(nearest, func(a, b int) bool {
			return nearest[a].dist < nearest[b].dist
		})

		votes := make([]int, knn.nClasses)
		for _, nb := range nearest[:k] {
			votes[knn.trainY[nb.index]]++
		}
		best := 0
		for c := 1; c < knn.nClasses; c++ {
			if votes[c] > votes[best] {
				best = c
			}
		}
		out.Set(i, 0, float64(best))
	}
	return out, nil
}

// GetParams returns the model's hyperparameters.
func (knn *KNNClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"k": knn.k,
	}
}
