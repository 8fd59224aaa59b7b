package output

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/factoryml/effbench/metrics"
	"github.com/factoryml/effbench/pkg/errors"
)

// confusionGrid adapts a confusion matrix to plotter.GridXYZ. Row 0 (the
// first true class) is drawn at the top of the heatmap.
type confusionGrid struct {
	cm *metrics.ConfusionMatrix
}

func (g confusionGrid) Dims() (int, int) {
	n := len(g.cm.Classes)
	return n, n
}

func (g confusionGrid) Z(c, r int) float64 {
	n := len(g.cm.Classes)
	return float64(g.cm.Counts[n-1-r][c])
}

func (g confusionGrid) X(c int) float64 { return float64(c) }
func (g confusionGrid) Y(r int) float64 { return float64(r) }

// SaveConfusionHeatmap renders cm as a PNG heatmap at path.
func SaveConfusionHeatmap(cm *metrics.ConfusionMatrix, title, path string) error {
	if len(cm.Classes) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "SaveConfusionHeatmap")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "predicted"
	p.Y.Label.Text = "true"

	hm := plotter.NewHeatMap(confusionGrid{cm: cm}, palette.Heat(12, 1))
	p.Add(hm)

	p.NominalX(cm.Classes...)
	reversed := make([]string, len(cm.Classes))
	for i, c := range cm.Classes {
		reversed[len(cm.Classes)-1-i] = c
	}
	p.NominalY(reversed...)

	if err := p.Save(4*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "SaveConfusionHeatmap")
	}
	return nil
}
