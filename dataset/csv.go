package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/factoryml/effbench/pkg/errors"
)

// Table is a loaded feature table before encoding and splitting.
type Table struct {
	X            [][]float64
	Labels       []string
	FeatureNames []string
}

// LoadCSV reads a header-first CSV feature table. The column named target
// becomes the label vector; every other column becomes a feature. Columns
// that do not parse as numbers are treated as categorical and label-encoded
// in place, in first-seen order.
func LoadCSV(r io.Reader, target string) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "LoadCSV")
	}
	if len(records) < 2 {
		return nil, errors.Wrap(errors.ErrEmptyData, "LoadCSV: need a header row and at least one record")
	}

	header := records[0]
	targetCol := -1
	for j, name := range header {
		if name == target {
			targetCol = j
			break
		}
	}
	if targetCol < 0 {
		return nil, errors.NewConfigurationError("target_column", "not found in CSV header", target)
	}

	rows := records[1:]
	nFeatures := len(header) - 1
	t := &Table{
		X:            make([][]float64, len(rows)),
		Labels:       make([]string, len(rows)),
		FeatureNames: make([]string, 0, nFeatures),
	}
	for j, name := range header {
		if j != targetCol {
			t.FeatureNames = append(t.FeatureNames, name)
		}
	}

	// Column-wise encoders for non-numeric feature columns, lazily created.
	categorical := make(map[int]map[string]float64)

	for i, row := range rows {
		if len(row) != len(header) {
			return nil, errors.NewDimensionError("LoadCSV", len(header), len(row), 1)
		}
		t.Labels[i] = row[targetCol]
		features := make([]float64, 0, nFeatures)
		for j, cell := range row {
			if j == targetCol {
				continue
			}
			v, perr := strconv.ParseFloat(cell, 64)
			if perr != nil {
				enc, ok := categorical[j]
				if !ok {
					enc = make(map[string]float64)
					categorical[j] = enc
				}
				code, ok := enc[cell]
				if !ok {
					code = float64(len(enc))
					enc[cell] = code
				}
				v = code
			}
			features = append(features, v)
		}
		t.X[i] = features
	}
	return t, nil
}

// Encode converts the table into a Dataset using enc for the label domain.
// The encoder is fitted on the full label vector first so the class domain
// is fixed before any split happens.
func (t *Table) Encode(enc *LabelEncoder) (*Dataset, error) {
	y, err := enc.FitTransform(t.Labels)
	if err != nil {
		return nil, err
	}
	if len(t.X) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Table.Encode")
	}
	return New(denseFromRows(t.X), y), nil
}
