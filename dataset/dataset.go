// Package dataset holds the in-memory representation of a tabular
// classification dataset and the deterministic train/test partitioning the
// pipeline is built on.
package dataset

import (
	"gonum.org/v1/gonum/mat"
)

// Dataset pairs a feature matrix with one encoded class index per row.
// Instances are treated as immutable once constructed; transforms always
// return new matrices.
type Dataset struct {
	X *mat.Dense // n_samples × n_features
	Y []int      // class indices, len n_samples
}

// New builds a Dataset from a feature matrix and label vector.
func New(X *mat.Dense, y []int) *Dataset {
	return &Dataset{X: X, Y: y}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int {
	if d.X == nil {
		return 0
	}
	_, c := d.X.Dims()
	return c
}

// Labels returns the label vector as an n×1 matrix in the form the
// classifiers consume.
func (d *Dataset) Labels() *mat.Dense {
	n := len(d.Y)
	out := mat.NewDense(n, 1, nil)
	for i, v := range d.Y {
		out.Set(i, 0, float64(v))
	}
	return out
}

// Subset returns a new Dataset containing the given rows, in order. Row data
// is copied so the subset does not alias the original matrix.
func (d *Dataset) Subset(indices []int) *Dataset {
	_, cols := d.X.Dims()
	X := mat.NewDense(len(indices), cols, nil)
	y := make([]int, len(indices))
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			X.Set(i, j, d.X.At(idx, j))
		}
		y[i] = d.Y[idx]
	}
	return &Dataset{X: X, Y: y}
}

// WithFeatures returns a copy of the dataset with X replaced. Used after
// scaling so the original matrix stays untouched.
func (d *Dataset) WithFeatures(X *mat.Dense) *Dataset {
	return &Dataset{X: X, Y: d.Y}
}

func denseFromRows(rows [][]float64) *mat.Dense {
	n := len(rows)
	cols := len(rows[0])
	out := mat.NewDense(n, cols, nil)
	for i, row := range rows {
		out.SetRow(i, row)
	}
	return out
}

// Split is a train/test partition of one Dataset. The two subsets never
// share a record and together cover the source exactly.
type Split struct {
	Train *Dataset
	Test  *Dataset
}
