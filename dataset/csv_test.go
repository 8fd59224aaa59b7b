package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	csv := strings.Join([]string{
		"Temp,Vibration,Machine_Type,Efficiency_Status",
		"65.5,1.2,CNC,HIGH",
		"82.0,2.8,Press,LOW",
		"70.1,1.9,CNC,MEDIUM",
	}, "\n")

	table, err := LoadCSV(strings.NewReader(csv), "Efficiency_Status")
	require.NoError(t, err)

	assert.Equal(t, []string{"Temp", "Vibration", "Machine_Type"}, table.FeatureNames)
	assert.Equal(t, []string{"HIGH", "LOW", "MEDIUM"}, table.Labels)
	require.Len(t, table.X, 3)
	assert.InDelta(t, 65.5, table.X[0][0], 1e-9)
	// Machine_Type is categorical: CNC first seen gets 0, Press gets 1.
	assert.Equal(t, 0.0, table.X[0][2])
	assert.Equal(t, 1.0, table.X[1][2])
	assert.Equal(t, 0.0, table.X[2][2])

	enc := NewLabelEncoder()
	d, err := table.Encode(enc)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, 3, d.NumFeatures())
	assert.Equal(t, []int{0, 1, 2}, d.Y) // HIGH, LOW, MEDIUM sorted
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		target string
	}{
		{name: "missing target column", csv: "a,b\n1,2", target: "label"},
		{name: "header only", csv: "a,b,label", target: "label"},
		{name: "empty input", csv: "", target: "label"},
		{name: "ragged row", csv: "a,label\n1,2,3", target: "label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.csv), tt.target)
			assert.Error(t, err)
		})
	}
}
