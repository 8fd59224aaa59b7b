package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/pkg/errors"
)

// sensorRange describes one synthetic sensor: the band values are drawn
// from, the zone above which efficiency degrades, and how much that sensor
// weighs in the overall score. Ranges follow typical operating bands of
// manufacturing floor sensors.
type sensorRange struct {
	Name    string
	Min     float64
	Max     float64
	Warning float64
	Weight  float64
}

var syntheticSensors = []sensorRange{
	{Name: "temperature", Min: 20, Max: 100, Warning: 60, Weight: 25},
	{Name: "vibration", Min: 0.1, Max: 3.5, Warning: 2.0, Weight: 20},
	{Name: "pressure", Min: 1.0, Max: 9.0, Warning: 8.0, Weight: 15},
	{Name: "humidity", Min: 30, Max: 80, Warning: 60, Weight: 10},
	{Name: "runtime_hours", Min: 0, Max: 9000, Warning: 5000, Weight: 20},
	{Name: "load", Min: 0, Max: 1.0, Warning: 0.7, Weight: 10},
	{Name: "speed_rpm", Min: 500, Max: 2600, Warning: 2000, Weight: 10},
}

// SyntheticFeatureNames returns the feature names of the synthetic dataset.
func SyntheticFeatureNames() []string {
	names := make([]string, len(syntheticSensors))
	for i, s := range syntheticSensors {
		names[i] = s.Name
	}
	return names
}

// Synthetic generates n seeded records of sensor readings labelled with an
// efficiency status. Each sensor past its warning zone subtracts its weight
// share from a 0-100 efficiency score; the score then maps to the
// LOW/MEDIUM/HIGH domain. Use this for examples and end-to-end tests when
// no real CSV is at hand.
func Synthetic(n int, seed int64) (*Dataset, *LabelEncoder, error) {
	if n < 1 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "Synthetic")
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	X := mat.NewDense(n, len(syntheticSensors), nil)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		score := 100.0
		for j, s := range syntheticSensors {
			v := s.Min + r.Float64()*(s.Max-s.Min)
			X.Set(i, j, v)
			if v > s.Warning {
				// Degrade proportionally to how deep into the warning zone
				// the reading sits.
				depth := (v - s.Warning) / (s.Max - s.Warning)
				score -= s.Weight * depth
			}
		}
		switch {
		case score >= 80:
			labels[i] = "HIGH"
		case score >= 55:
			labels[i] = "MEDIUM"
		default:
			labels[i] = "LOW"
		}
	}

	enc := NewLabelEncoder()
	y, err := enc.FitTransform(labels)
	if err != nil {
		return nil, nil, err
	}
	return New(X, y), enc, nil
}
