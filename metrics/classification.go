// Package metrics computes the evaluation statistics of the harness:
// confusion matrices, accuracy and per-class precision/recall/F1.
package metrics

import (
	"math"

	"github.com/factoryml/effbench/pkg/errors"
)

// ConfusionMatrix counts (true, predicted) label pairs over a fixed class
// domain. Rows are true classes, columns predicted classes, and every class
// of the domain has a row and column even when its count is zero.
type ConfusionMatrix struct {
	// Classes holds the label names in index order.
	Classes []string

	// Counts[i][j] is the number of records with true class i predicted as
	// class j.
	Counts [][]int
}

// NewConfusionMatrix builds the matrix from encoded true and predicted
// labels. Both vectors must have the same length and every index must fall
// inside the class domain.
func NewConfusionMatrix(yTrue, yPred []int, classes []string) (*ConfusionMatrix, error) {
	if len(yTrue) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NewConfusionMatrix")
	}
	if len(yTrue) != len(yPred) {
		return nil, errors.NewDimensionError("NewConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	k := len(classes)
	counts := make([][]int, k)
	for i := range counts {
		counts[i] = make([]int, k)
	}
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t >= k {
			return nil, errors.NewValueError("NewConfusionMatrix", "true label index outside class domain")
		}
		if p < 0 || p >= k {
			return nil, errors.NewValueError("NewConfusionMatrix", "predicted label index outside class domain")
		}
		counts[t][p]++
	}
	return &ConfusionMatrix{Classes: classes, Counts: counts}, nil
}

// Total returns the sum of all cells, which equals the number of evaluated
// records.
func (c *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range c.Counts {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Trace returns the sum of the diagonal, the count of correct predictions.
func (c *ConfusionMatrix) Trace() int {
	trace := 0
	for i := range c.Counts {
		trace += c.Counts[i][i]
	}
	return trace
}

// Accuracy returns trace/total.
func (c *ConfusionMatrix) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return math.NaN()
	}
	return float64(c.Trace()) / float64(total)
}

// ClassMetrics holds the derived statistics for one class. A statistic
// whose denominator is zero is NaN, never a crash: precision is undefined
// when the class was never predicted, recall when it never occurred.
type ClassMetrics struct {
	Class     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int // number of true occurrences
}

// PerClass derives precision, recall and F1 for every class of the domain,
// in index order.
func (c *ConfusionMatrix) PerClass() []ClassMetrics {
	k := len(c.Classes)
	out := make([]ClassMetrics, k)
	for i := 0; i < k; i++ {
		tp := c.Counts[i][i]
		rowSum := 0
		colSum := 0
		for j := 0; j < k; j++ {
			rowSum += c.Counts[i][j]
			colSum += c.Counts[j][i]
		}

		m := ClassMetrics{Class: c.Classes[i], Support: rowSum}
		if colSum == 0 {
			m.Precision = math.NaN()
		} else {
			m.Precision = float64(tp) / float64(colSum)
		}
		if rowSum == 0 {
			m.Recall = math.NaN()
		} else {
			m.Recall = float64(tp) / float64(rowSum)
		}
		if math.IsNaN(m.Precision) || math.IsNaN(m.Recall) || m.Precision+m.Recall == 0 {
			m.F1 = math.NaN()
		} else {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		out[i] = m
	}
	return out
}

// MacroF1 averages F1 across classes. Undefined per-class F1 values count
// as zero, matching the usual zero-division=0 macro averaging convention.
func (c *ConfusionMatrix) MacroF1() float64 {
	per := c.PerClass()
	if len(per) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, m := range per {
		if !math.IsNaN(m.F1) {
			sum += m.F1
		}
	}
	return sum / float64(len(per))
}

// Accuracy computes the share of matching entries between two label
// vectors without building a full confusion matrix.
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "Accuracy")
	}
	if len(yTrue) != len(yPred) {
		return 0, errors.NewDimensionError("Accuracy", len(yTrue), len(yPred), 0)
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}
