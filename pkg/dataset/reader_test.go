package dataset

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k3l.io/go-hinge/pkg/sparse"
)

func TestReadLibSVM(t *testing.T) {
	input := `# a comment line
1 1:0.5 3:2
-1 2:1.5   # negative class

0 4:-1 5:0
`
	instances, numFeatures, err := ReadLibSVM(strings.NewReader(input), 0)
	require.NoError(t, err)
	assert.Equal(t, 5, numFeatures)
	require.Len(t, instances, 3)
	assert.Equal(t, Instance{
		Label:  1,
		Weight: 1,
		Features: &sparse.Vector{Dim: 5, Entries: []sparse.Entry{
			{Index: 0, Value: 0.5}, {Index: 2, Value: 2},
		}},
	}, instances[0])
	assert.Equal(t, 0.0, instances[1].Label)
	assert.Equal(t, sparse.Dense{0, 0, 0, -1, 0},
		sparse.ToDense(instances[2].Features))

	instances, numFeatures, err = ReadLibSVM(strings.NewReader(input), 8)
	require.NoError(t, err)
	assert.Equal(t, 8, numFeatures)
	assert.Equal(t, 8, instances[0].NumFeatures())
}

func TestReadLibSVM_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		dim      int
		wantLine int
	}{
		{"BadLabel", "1 1:1\n2 1:1\n", 0, 2},
		{"NonNumericLabel", "x 1:1\n", 0, 1},
		{"MissingColon", "1 1:1\n0 3\n", 0, 2},
		{"ZeroIndex", "1 0:1\n", 0, 1},
		{"Descending", "1 3:1 2:1\n", 0, 1},
		{"BadValue", "1 1:abc\n", 0, 1},
		{"TooLarge", "1 1:1\n1 9:1\n", 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadLibSVM(strings.NewReader(tt.input), tt.dim)
			var parseErr ParseError
			require.True(t, errors.As(err, &parseErr), "err=%v", err)
			assert.Equal(t, tt.wantLine, parseErr.Line)
		})
	}
	_, _, err := ReadLibSVM(strings.NewReader("2 1:1\n"), 0)
	assert.True(t, errors.Is(err, ErrInvalidLabel))
}

func TestReadCSV(t *testing.T) {
	input := "x1,label,x2,w\n0.5,1,2,3\n-1,0,0,0.5\n"
	instances, numFeatures, err := ReadCSV(csv.NewReader(strings.NewReader(input)),
		CSVOptions{WeightColumn: "w"})
	require.NoError(t, err)
	assert.Equal(t, 2, numFeatures)
	assert.Equal(t, []Instance{
		{Label: 1, Weight: 3, Features: sparse.Dense{0.5, 2}},
		{Label: 0, Weight: 0.5, Features: sparse.Dense{-1, 0}},
	}, instances)

	instances, numFeatures, err = ReadCSV(csv.NewReader(strings.NewReader(input)),
		CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, numFeatures)
	assert.Equal(t, 1.0, instances[0].Weight)
	assert.Equal(t, sparse.Dense{0.5, 2, 3}, instances[0].Features)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		o     CSVOptions
	}{
		{"MissingLabelColumn", "a,b\n1,2\n", CSVOptions{}},
		{"MissingWeightColumn", "label,b\n1,2\n", CSVOptions{WeightColumn: "w"}},
		{"NoFeatures", "label\n1\n", CSVOptions{}},
		{"BadFeature", "label,b\n1,x\n", CSVOptions{}},
		{"BadLabel", "label,b\n5,1\n", CSVOptions{}},
		{"Empty", "", CSVOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadCSV(csv.NewReader(strings.NewReader(tt.input)), tt.o)
			assert.Error(t, err)
		})
	}
}
