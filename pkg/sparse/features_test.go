package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(f Features) (indices []int, values []float64) {
	for i, v := range f.NonZeros() {
		indices = append(indices, i)
		values = append(values, v)
	}
	return
}

func TestFeatures_NonZeros(t *testing.T) {
	tests := []struct {
		name        string
		f           Features
		wantIndices []int
		wantValues  []float64
	}{
		{
			"DenseSkipsZeros",
			Dense{0, 1.5, 0, -2},
			[]int{1, 3},
			[]float64{1.5, -2},
		},
		{
			"SparseSkipsStoredZeros",
			&Vector{Dim: 6, Entries: []Entry{{1, 3}, {2, 0}, {5, -1}}},
			[]int{1, 5},
			[]float64{3, -1},
		},
		{"EmptyDense", Dense{}, nil, nil},
		{"EmptySparse", &Vector{Dim: 4}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indices, values := collect(tt.f)
			assert.Equal(t, tt.wantIndices, indices)
			assert.Equal(t, tt.wantValues, values)
			// restartable
			indices, values = collect(tt.f)
			assert.Equal(t, tt.wantIndices, indices)
			assert.Equal(t, tt.wantValues, values)
		})
	}
}

func TestFeatures_NonZerosStopsEarly(t *testing.T) {
	visited := 0
	for range (Dense{1, 2, 3, 4}).NonZeros() {
		visited++
		if visited == 2 {
			break
		}
	}
	assert.Equal(t, 2, visited)
}

func TestDotAndAxpy(t *testing.T) {
	d := Dense{1, -1, 2}
	sparseF := &Vector{Dim: 3, Entries: []Entry{{0, 2}, {2, 0.5}}}
	denseF := Dense{2, 0, 0.5}
	assert.Equal(t, 3.0, Dot(sparseF, d))
	assert.Equal(t, 3.0, Dot(denseF, d))

	y := Dense{1, 1, 1}
	Axpy(2, sparseF, y)
	assert.Equal(t, Dense{5, 1, 2}, y)
}

func TestNNZAndToDense(t *testing.T) {
	v := &Vector{Dim: 4, Entries: []Entry{{0, 1}, {3, 2}}}
	assert.Equal(t, 2, NNZ(v))
	assert.Equal(t, 1, NNZ(Dense{0, 0, 7}))
	assert.Equal(t, Dense{1, 0, 0, 2}, ToDense(v))
}
