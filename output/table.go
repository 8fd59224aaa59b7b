// Package output renders pipeline results for display: a text comparison
// table and a confusion-matrix heatmap. The evaluation itself never depends
// on this package.
package output

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/factoryml/effbench/eval"
	"github.com/factoryml/effbench/metrics"
)

// WriteComparison writes the sorted comparison table, one row per model
// with its status, accuracy and macro F1.
func WriteComparison(w io.Writer, table []*eval.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tMODEL\tSTATUS\tACCURACY\tMACRO_F1")
	for i, rec := range table {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1, rec.Model, rec.Status,
			fmtMetric(rec.Accuracy, rec.Evaluated()),
			fmtMetric(rec.MacroF1, rec.Evaluated()))
	}
	return tw.Flush()
}

// WritePerClass writes the per-class precision/recall/F1 block of one
// evaluated record.
func WritePerClass(w io.Writer, rec *eval.Record) error {
	if !rec.Evaluated() {
		_, err := fmt.Fprintf(w, "%s: %s\n", rec.Model, rec.Status)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", rec.Model)
	fmt.Fprintln(tw, "CLASS\tPRECISION\tRECALL\tF1\tSUPPORT")
	for _, m := range rec.PerClass {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			m.Class,
			fmtMetric(m.Precision, true),
			fmtMetric(m.Recall, true),
			fmtMetric(m.F1, true),
			m.Support)
	}
	return tw.Flush()
}

// WriteConfusionMatrix writes the counts grid with class headers.
func WriteConfusionMatrix(w io.Writer, cm *metrics.ConfusionMatrix) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "TRUE\\PRED")
	for _, c := range cm.Classes {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprintln(tw)
	for i, c := range cm.Classes {
		fmt.Fprint(tw, c)
		for j := range cm.Classes {
			fmt.Fprintf(tw, "\t%d", cm.Counts[i][j])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func fmtMetric(v float64, evaluated bool) string {
	if !evaluated {
		return "-"
	}
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
