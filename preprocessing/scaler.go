// Package preprocessing provides the feature normalization step of the
// pipeline. Scalers are fitted on the training subset only and apply the
// identical parameters to every matrix they transform, so no test-set
// statistics ever leak into training.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/pkg/errors"
)

// Scaler is the transform contract the pipeline consumes.
type Scaler interface {
	// Fit computes scaling parameters from X.
	Fit(X mat.Matrix) error
	// Transform returns a new matrix scaled with the fitted parameters.
	// The input is never modified.
	Transform(X mat.Matrix) (*mat.Dense, error)
}

// StandardScaler standardizes each feature column to zero mean and unit
// standard deviation. A constant column keeps scale 1 so transforming it is
// a no-op shift instead of a division by zero.
type StandardScaler struct {
	model.BaseEstimator

	// Mean holds the per-column mean computed at fit time.
	Mean []float64

	// Scale holds the per-column standard deviation computed at fit time.
	Scale []float64

	// NFeatures is the column count the scaler was fitted with.
	NFeatures int
}

// NewStandardScaler returns an unfit StandardScaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and standard deviation from X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "StandardScaler.Fit")
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		s.Mean[j] = sum / float64(r)
	}

	for j := 0; j < c; j++ {
		sumSquares := 0.0
		for i := 0; i < r; i++ {
			diff := X.At(i, j) - s.Mean[j]
			sumSquares += diff * diff
		}
		s.Scale[j] = math.Sqrt(sumSquares / float64(r))
		if s.Scale[j] < 1e-8 {
			// Constant column; dividing by ~0 would blow up.
			s.Scale[j] = 1.0
		}
	}

	s.SetFitted()
	return nil
}

// Transform standardizes X with the fitted parameters.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return result, nil
}

// FitTransform fits on X and returns its transform.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// String describes the scaler and its fitted shape.
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return "StandardScaler()"
	}
	return fmt.Sprintf("StandardScaler(n_features=%d)", s.NFeatures)
}

// MinMaxScaler rescales each feature column into [0, 1]. Offered as an
// alternative to StandardScaler for models sensitive to unbounded inputs.
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin and DataMax hold the per-column extrema from fit time.
	DataMin []float64
	DataMax []float64

	// NFeatures is the column count the scaler was fitted with.
	NFeatures int
}

// NewMinMaxScaler returns an unfit MinMaxScaler.
func NewMinMaxScaler() *MinMaxScaler {
	return &MinMaxScaler{}
}

// Fit computes per-column minima and maxima from X.
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MinMaxScaler.Fit")
	}

	m.NFeatures = c
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	for j := 0; j < c; j++ {
		lo, hi := X.At(0, j), X.At(0, j)
		for i := 1; i < r; i++ {
			v := X.At(i, j)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		m.DataMin[j] = lo
		m.DataMax[j] = hi
	}

	m.SetFitted()
	return nil
}

// Transform rescales X into [0, 1] column-wise. Constant columns map to 0.
func (m *MinMaxScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}
	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			span := m.DataMax[j] - m.DataMin[j]
			if span < 1e-8 {
				result.Set(i, j, 0)
				continue
			}
			result.Set(i, j, (X.At(i, j)-m.DataMin[j])/span)
		}
	}
	return result, nil
}

// String describes the scaler and its fitted shape.
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return "MinMaxScaler()"
	}
	return fmt.Sprintf("MinMaxScaler(n_features=%d)", m.NFeatures)
}
