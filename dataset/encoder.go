package dataset

import (
	"sort"

	"github.com/factoryml/effbench/pkg/errors"
)

// EfficiencyLevels is the label domain of the manufacturing efficiency
// datasets this harness was built for.
var EfficiencyLevels = []string{"LOW", "MEDIUM", "HIGH"}

// LabelEncoder maps categorical string labels to contiguous class indices
// and back. Classes are sorted lexicographically at fit time so the mapping
// is deterministic regardless of record order.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder returns an unfit encoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit learns the label domain from labels.
func (e *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LabelEncoder.Fit")
	}
	seen := make(map[string]bool)
	e.classes = e.classes[:0]
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			e.classes = append(e.classes, l)
		}
	}
	sort.Strings(e.classes)
	e.index = make(map[string]int, len(e.classes))
	for i, c := range e.classes {
		e.index[c] = i
	}
	return nil
}

// Transform converts labels to class indices. A label outside the fitted
// domain is an error.
func (e *LabelEncoder) Transform(labels []string) ([]int, error) {
	if e.index == nil {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}
	out := make([]int, len(labels))
	for i, l := range labels {
		idx, ok := e.index[l]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform", "label "+l+" not in fitted domain")
		}
		out[i] = idx
	}
	return out, nil
}

// FitTransform fits on labels and returns their encoding.
func (e *LabelEncoder) FitTransform(labels []string) ([]int, error) {
	if err := e.Fit(labels); err != nil {
		return nil, err
	}
	return e.Transform(labels)
}

// InverseTransform converts class indices back to labels. Unknown indices
// map to the empty string.
func (e *LabelEncoder) InverseTransform(indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		if idx >= 0 && idx < len(e.classes) {
			out[i] = e.classes[idx]
		}
	}
	return out
}

// Classes returns the fitted label domain in index order.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// NumClasses returns the size of the fitted label domain.
func (e *LabelEncoder) NumClasses() int {
	return len(e.classes)
}
