package dataset

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/pkg/errors"
)

func makeDataset(n, f int) *Dataset {
	X := mat.NewDense(n, f, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < f; j++ {
			X.Set(i, j, float64(i*f+j))
		}
		y[i] = i % 2
	}
	return New(X, y)
}

func TestTrainTestSplitPartition(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		fraction  float64
		wantTrain int
	}{
		{name: "80/20 of 100", n: 100, fraction: 0.8, wantTrain: 80},
		{name: "50/50 of 10", n: 10, fraction: 0.5, wantTrain: 5},
		{name: "rounding up", n: 10, fraction: 0.75, wantTrain: 8},
		{name: "clamped to keep test non-empty", n: 2, fraction: 0.9, wantTrain: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := makeDataset(tt.n, 3)
			split, err := TrainTestSplit(d, SplitOptions{TrainFraction: tt.fraction, Seed: 7})
			if err != nil {
				t.Fatalf("TrainTestSplit() error = %v", err)
			}

			if got := split.Train.Len(); got != tt.wantTrain {
				t.Errorf("train size = %d, want %d", got, tt.wantTrain)
			}
			if got := split.Train.Len() + split.Test.Len(); got != tt.n {
				t.Errorf("train+test = %d, want %d", got, tt.n)
			}

			// Record identity via the first feature, which is unique per row.
			seen := make(map[float64]bool)
			for _, sub := range []*Dataset{split.Train, split.Test} {
				for i := 0; i < sub.Len(); i++ {
					v := sub.X.At(i, 0)
					if seen[v] {
						t.Fatalf("record %v appears in both subsets", v)
					}
					seen[v] = true
				}
			}
			if len(seen) != tt.n {
				t.Errorf("partition covers %d records, want %d", len(seen), tt.n)
			}
		})
	}
}

func TestTrainTestSplitDeterminism(t *testing.T) {
	d := makeDataset(60, 4)
	a, err := TrainTestSplit(d, SplitOptions{TrainFraction: 0.8, Seed: 42})
	if err != nil {
		t.Fatalf("first split: %v", err)
	}
	b, err := TrainTestSplit(d, SplitOptions{TrainFraction: 0.8, Seed: 42})
	if err != nil {
		t.Fatalf("second split: %v", err)
	}

	if !mat.Equal(a.Train.X, b.Train.X) || !mat.Equal(a.Test.X, b.Test.X) {
		t.Error("same seed produced different partitions")
	}

	c, err := TrainTestSplit(d, SplitOptions{TrainFraction: 0.8, Seed: 43})
	if err != nil {
		t.Fatalf("third split: %v", err)
	}
	if mat.Equal(a.Train.X, c.Train.X) {
		t.Error("different seeds produced identical train subsets")
	}
}

func TestTrainTestSplitErrors(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		fraction float64
	}{
		{name: "fraction zero", n: 10, fraction: 0},
		{name: "fraction one", n: 10, fraction: 1},
		{name: "fraction negative", n: 10, fraction: -0.5},
		{name: "single record", n: 1, fraction: 0.8},
		{name: "empty dataset", n: 0, fraction: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d *Dataset
			if tt.n > 0 {
				d = makeDataset(tt.n, 2)
			} else {
				d = New(nil, nil)
			}
			_, err := TrainTestSplit(d, SplitOptions{TrainFraction: tt.fraction, Seed: 1})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cfgErr *errors.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigurationError, got %T: %v", err, err)
			}
		})
	}
}

func TestTrainTestSplitStratified(t *testing.T) {
	// 90 records of class 0, 10 of class 1.
	n := 100
	X := mat.NewDense(n, 2, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		if i >= 90 {
			y[i] = 1
		}
	}
	d := New(X, y)

	split, err := TrainTestSplit(d, SplitOptions{TrainFraction: 0.8, Seed: 3, Stratify: true})
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}

	count := func(labels []int, class int) int {
		c := 0
		for _, l := range labels {
			if l == class {
				c++
			}
		}
		return c
	}
	if got := count(split.Train.Y, 1); got != 8 {
		t.Errorf("train minority count = %d, want 8", got)
	}
	if got := count(split.Test.Y, 1); got != 2 {
		t.Errorf("test minority count = %d, want 2", got)
	}
	if split.Train.Len() != 80 || split.Test.Len() != 20 {
		t.Errorf("sizes = %d/%d, want 80/20", split.Train.Len(), split.Test.Len())
	}
}
