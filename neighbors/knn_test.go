package neighbors

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKNNPredict(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0.1, 0.1,
		0.2, 0,
		10, 10,
		10.1, 9.9,
		9.9, 10.1,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	knn := NewKNNClassifier(WithK(3))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	test := mat.NewDense(2, 2, []float64{0.05, 0.05, 10.05, 10.05})
	pred, err := knn.Predict(test)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.At(0, 0) != 0 || pred.At(1, 0) != 1 {
		t.Errorf("predictions = [%g, %g], want [0, 1]", pred.At(0, 0), pred.At(1, 0))
	}
}

func TestKNNVoteTieLowestClass(t *testing.T) {
	// k=2 with one neighbor of each class: the tie resolves to class 0.
	X := mat.NewDense(2, 1, []float64{-1, 1})
	y := mat.NewDense(2, 1, []float64{1, 0})

	knn := NewKNNClassifier(WithK(2))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	pred, err := knn.Predict(mat.NewDense(1, 1, []float64{0}))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.At(0, 0) != 0 {
		t.Errorf("tie prediction = %g, want 0", pred.At(0, 0))
	}
}

func TestKNNKClamped(t *testing.T) {
	// k larger than the training set falls back to all records.
	X := mat.NewDense(2, 1, []float64{0, 1})
	y := mat.NewDense(2, 1, []float64{0, 0})

	knn := NewKNNClassifier(WithK(10))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	pred, err := knn.Predict(mat.NewDense(1, 1, []float64{0.5}))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.At(0, 0) != 0 {
		t.Errorf("prediction = %g, want 0", pred.At(0, 0))
	}
}

func TestKNNErrors(t *testing.T) {
	knn := NewKNNClassifier()
	if _, err := knn.Predict(mat.NewDense(1, 1, nil)); err == nil {
		t.Error("Predict before Fit should fail")
	}

	X := mat.NewDense(3, 2, nil)
	y := mat.NewDense(3, 1, nil)
	if err := NewKNNClassifier(WithK(0)).Fit(X, y); err == nil {
		t.Error("k=0 should fail")
	}
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := knn.Predict(mat.NewDense(1, 3, nil)); err == nil {
		t.Error("feature count mismatch should fail")
	}
}
