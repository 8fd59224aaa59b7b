package metrics

import (
	"math"
	"testing"
)

var threeClasses = []string{"HIGH", "LOW", "MEDIUM"}

func TestConfusionMatrixCounts(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 2, 2}
	yPred := []int{0, 1, 1, 1, 2, 0}

	cm, err := NewConfusionMatrix(yTrue, yPred, threeClasses)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}

	want := [][]int{
		{1, 1, 0},
		{0, 2, 0},
		{1, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if cm.Counts[i][j] != want[i][j] {
				t.Errorf("Counts[%d][%d] = %d, want %d", i, j, cm.Counts[i][j], want[i][j])
			}
		}
	}

	if got := cm.Total(); got != len(yTrue) {
		t.Errorf("Total() = %d, want %d", got, len(yTrue))
	}
	if got := cm.Trace(); got != 4 {
		t.Errorf("Trace() = %d, want 4", got)
	}
	if got := cm.Accuracy(); math.Abs(got-4.0/6.0) > 1e-12 {
		t.Errorf("Accuracy() = %g, want %g", got, 4.0/6.0)
	}
}

func TestConfusionMatrixFixedDomain(t *testing.T) {
	// Class 2 never occurs: its row and column must still exist.
	cm, err := NewConfusionMatrix([]int{0, 1}, []int{1, 1}, threeClasses)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}
	if len(cm.Counts) != 3 || len(cm.Counts[2]) != 3 {
		t.Fatal("zero-support class dropped from matrix")
	}
	for j := 0; j < 3; j++ {
		if cm.Counts[2][j] != 0 {
			t.Errorf("Counts[2][%d] = %d, want 0", j, cm.Counts[2][j])
		}
	}
}

func TestPerClassUndefinedMetrics(t *testing.T) {
	// Class 2 has no true occurrences and is never predicted: both its
	// precision and recall are undefined, reported as NaN.
	cm, err := NewConfusionMatrix([]int{0, 1, 1}, []int{0, 1, 0}, threeClasses)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}

	per := cm.PerClass()
	if len(per) != 3 {
		t.Fatalf("PerClass() len = %d, want 3", len(per))
	}

	if !math.IsNaN(per[2].Precision) || !math.IsNaN(per[2].Recall) || !math.IsNaN(per[2].F1) {
		t.Errorf("zero-support class metrics = %+v, want NaN", per[2])
	}
	if per[2].Support != 0 {
		t.Errorf("zero-support class support = %d, want 0", per[2].Support)
	}

	// Class 0: predicted twice, one correct; occurs once, recalled.
	if math.Abs(per[0].Precision-0.5) > 1e-12 {
		t.Errorf("precision[0] = %g, want 0.5", per[0].Precision)
	}
	if math.Abs(per[0].Recall-1.0) > 1e-12 {
		t.Errorf("recall[0] = %g, want 1", per[0].Recall)
	}
}

func TestMacroF1(t *testing.T) {
	// Perfect predictions: macro F1 is 1 when every class has support.
	cm, err := NewConfusionMatrix([]int{0, 1, 2}, []int{0, 1, 2}, threeClasses)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}
	if got := cm.MacroF1(); math.Abs(got-1) > 1e-12 {
		t.Errorf("MacroF1() = %g, want 1", got)
	}
}

func TestConfusionMatrixErrors(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []int
		yPred []int
	}{
		{name: "empty", yTrue: nil, yPred: nil},
		{name: "length mismatch", yTrue: []int{0}, yPred: []int{0, 1}},
		{name: "true label out of domain", yTrue: []int{3}, yPred: []int{0}},
		{name: "predicted label out of domain", yTrue: []int{0}, yPred: []int{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewConfusionMatrix(tt.yTrue, tt.yPred, threeClasses); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	got, err := Accuracy([]int{0, 1, 1, 0}, []int{0, 1, 0, 0})
	if err != nil {
		t.Fatalf("Accuracy() error = %v", err)
	}
	if math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Accuracy() = %g, want 0.75", got)
	}

	if _, err := Accuracy(nil, nil); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := Accuracy([]int{0}, []int{0, 1}); err == nil {
		t.Error("length mismatch should fail")
	}
}
