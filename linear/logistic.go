// Package linear provides the linear-model family of the zoo: logistic
// regression trained by gradient descent.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/pkg/errors"
)

// LogisticRegression is an L2-regularized logistic classifier. Binary
// problems train a single weight vector; multiclass problems train
// one-vs-rest.
type LogisticRegression struct {
	model.BaseEstimator

	c       float64 // inverse regularization strength
	maxIter int
	tol     float64

	coef      [][]float64 // one row per trained binary problem
	intercept []float64
	classes   []int
	nFeatures int
}

// LogisticOption configures a LogisticRegression.
type LogisticOption func(*LogisticRegression)

// WithC sets the inverse regularization strength.
func WithC(c float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithMaxIter sets the gradient descent iteration cap.
func WithMaxIter(n int) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = n
	}
}

// WithTol sets the gradient-norm stopping tolerance.
func WithTol(tol float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// NewLogisticRegression creates a classifier with C=1.0, 1000 iterations
// and tolerance 1e-4, the configuration the efficiency comparison used.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		c:       1.0,
		maxIter: 1000,
		tol:     1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit trains the model on X and the n×1 class-index matrix y.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	n, f := X.Dims()
	yr, yc := y.Dims()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LogisticRegression.Fit")
	}
	if yr != n {
		return errors.NewDimensionError("LogisticRegression.Fit", n, yr, 0)
	}
	if yc != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yc, 1)
	}

	lr.Reset()
	lr.nFeatures = f
	lr.classes = extractClasses(y)
	if len(lr.classes) < 2 {
		return errors.NewValueError("LogisticRegression.Fit", "need at least 2 classes in training data")
	}

	if len(lr.classes) == 2 {
		lr.coef = make([][]float64, 1)
		lr.intercept = make([]float64, 1)
		lr.coef[0] = make([]float64, f)
		lr.trainBinary(X, y, 0, lr.classes[1])
	} else {
		lr.coef = make([][]float64, len(lr.classes))
		lr.intercept = make([]float64, len(lr.classes))
		for k, class := range lr.classes {
			lr.coef[k] = make([]float64, f)
			lr.trainBinary(X, y, k, class)
		}
	}

	lr.SetFitted()
	return nil
}

// trainBinary runs gradient descent for one binary problem: positive class
// against the rest, writing into weight slot k.
func (lr *LogisticRegression) trainBinary(X, y mat.Matrix, k, positive int) {
	n, f := X.Dims()
	weights := lr.coef[k]
	lambda := 1.0 / lr.c

	target := make([]float64, n)
	for i := 0; i < n; i++ {
		if int(y.At(i, 0)) == positive {
			target[i] = 1
		}
	}

	for iter := 0; iter < lr.maxIter; iter++ {
		gradW := make([]float64, f)
		gradB := 0.0
		for i := 0; i < n; i++ {
			z := lr.intercept[k]
			for j := 0; j < f; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - target[i]
			gradB += residual
			for j := 0; j < f; j++ {
				gradW[j] += residual * X.At(i, j)
			}
		}

		maxGrad := math.Abs(gradB / float64(n))
		step := 1.0 / (1.0 + 0.1*float64(iter))
		for j := 0; j < f; j++ {
			g := gradW[j]/float64(n) + lambda*weights[j]/float64(n)
			weights[j] -= step * g
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		lr.intercept[k] -= step * gradB / float64(n)

		if maxGrad < lr.tol {
			break
		}
	}
}

// Predict returns an n×1 matrix of predicted class indices.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "Predict")
	}
	n, f := X.Dims()
	if f != lr.nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.Predict", lr.nFeatures, f, 1)
	}

	out := mat.NewDense(n, 1, nil)
	binary := len(lr.classes) == 2
	for i := 0; i < n; i++ {
		if binary {
			z := lr.intercept[0]
			for j := 0; j < f; j++ {
				z += X.At(i, j) * lr.coef[0][j]
			}
			if sigmoid(z) >= 0.5 {
				out.Set(i, 0, float64(lr.classes[1]))
			} else {
				out.Set(i, 0, float64(lr.classes[0]))
			}
			continue
		}

		bestScore := math.Inf(-1)
		best := lr.classes[0]
		for k, class := range lr.classes {
			z := lr.intercept[k]
			for j := 0; j < f; j++ {
				z += X.At(i, j) * lr.coef[k][j]
			}
			if z > bestScore {
				bestScore = z
				best = class
			}
		}
		out.Set(i, 0, float64(best))
	}
	return out, nil
}

// GetParams returns the model's hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":        lr.c,
		"max_iter": lr.maxIter,
		"tol":      lr.tol,
	}
}

func extractClasses(y mat.Matrix) []int {
	n, _ := y.Dims()
	seen := make(map[int]bool)
	var classes []int
	for i := 0; i < n; i++ {
		c := int(y.At(i, 0))
		if !seen[c] {
			seen[c] = true
			classes = append(classes, c)
		}
	}
	for i := 0; i < len(classes)-1; i++ {
		for j := i + 1; j < len(classes); j++ {
			if classes[i] > classes[j] {
				classes[i], classes[j] = classes[j], classes[i]
			}
		}
	}
	return classes
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
