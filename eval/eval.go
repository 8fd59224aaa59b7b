// Package eval turns per-model predictions into comparable evaluation
// records and assembles the final comparison table.
package eval

import (
	"math"
	"sort"

	"github.com/factoryml/effbench/metrics"
	"github.com/factoryml/effbench/pkg/errors"
)

// StatusEvaluated marks a record whose model completed fit, predict and
// evaluation. Failed records carry "failed: <reason>" instead, so a model
// that broke is visible in the table rather than silently dropped.
const StatusEvaluated = "evaluated"

// Record is the immutable evaluation outcome for one model.
type Record struct {
	// Model is the registry name of the model.
	Model string

	// Order is the model's registration position, used as the stable
	// tie-break when sorting the comparison table.
	Order int

	// Status is StatusEvaluated or "failed: <reason>".
	Status string

	// Err holds the failure cause for failed records.
	Err error

	// YTrue and YPred are the encoded label vectors the record was
	// evaluated on. Empty for failed records.
	YTrue []int
	YPred []int

	// Confusion is the full-domain confusion matrix. Nil for failed
	// records.
	Confusion *metrics.ConfusionMatrix

	// Accuracy is trace/total of the confusion matrix.
	Accuracy float64

	// MacroF1 averages per-class F1 with undefined values counted as zero.
	MacroF1 float64

	// PerClass holds precision/recall/F1/support per class in domain order.
	PerClass []metrics.ClassMetrics
}

// Evaluated reports whether the record holds metrics.
func (r *Record) Evaluated() bool {
	return r.Status == StatusEvaluated
}

// Metric returns the named scalar metric, or NaN when the record failed or
// the metric name is unknown.
func (r *Record) Metric(name string) float64 {
	if !r.Evaluated() {
		return math.NaN()
	}
	switch name {
	case MetricMacroF1:
		return r.MacroF1
	case MetricAccuracy:
		return r.Accuracy
	default:
		return math.NaN()
	}
}

// Supported comparison sort metrics.
const (
	MetricAccuracy = "accuracy"
	MetricMacroF1  = "macro_f1"
)

// Evaluate builds the record for one model from true and predicted encoded
// labels over the fixed class domain. Domain or length mismatches surface
// as an EvaluationError; the caller records them as that model's failure.
func Evaluate(name string, order int, yTrue, yPred []int, classes []string) (*Record, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.NewEvaluationError(name, "true and predicted label vectors differ in length")
	}
	cm, err := metrics.NewConfusionMatrix(yTrue, yPred, classes)
	if err != nil {
		return nil, errors.NewEvaluationError(name, err.Error())
	}

	return &Record{
		Model:     name,
		Order:     order,
		Status:    StatusEvaluated,
		YTrue:     append([]int(nil), yTrue...),
		YPred:     append([]int(nil), yPred...),
		Confusion: cm,
		Accuracy:  cm.Accuracy(),
		MacroF1:   cm.MacroF1(),
		PerClass:  cm.PerClass(),
	}, nil
}

// NewFailedRecord builds the table entry for a model that could not be
// evaluated.
func NewFailedRecord(name string, order int, err error) *Record {
	return &Record{
		Model:  name,
		Order:  order,
		Status: "failed: " + err.Error(),
		Err:    err,
	}
}

// Compare returns the records sorted into the comparison table: evaluated
// records first, descending by the chosen metric, ties and failed records
// by registration order. The input slice is not modified.
func Compare(records []*Record, metric string) []*Record {
	table := append([]*Record(nil), records...)
	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Evaluated() != b.Evaluated() {
			return a.Evaluated()
		}
		if a.Evaluated() {
			ma, mb := a.Metric(metric), b.Metric(metric)
			if ma != mb && !(math.IsNaN(ma) || math.IsNaN(mb)) {
				return ma > mb
			}
		}
		return a.Order < b.Order
	})
	return table
}
