package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k3l.io/go-hinge/pkg/sparse"
)

func sparseInstance(label, weight float64, dim int, entries ...sparse.Entry) Instance {
	return Instance{
		Label:    label,
		Weight:   weight,
		Features: sparse.NewVector(dim, entries),
	}
}

func TestFromInstances_ChoosesStorage(t *testing.T) {
	tests := []struct {
		name       string
		instances  []Instance
		dim        int
		wantSparse bool
	}{
		{
			name: "Dense",
			instances: []Instance{
				{1, 1, sparse.Dense{1, 2, 3}},
				{0, 2, sparse.Dense{4, 0, 6}},
			},
			dim:        3,
			wantSparse: false,
		},
		{
			name: "Sparse",
			instances: []Instance{
				sparseInstance(1, 1, 100, sparse.Entry{Index: 3, Value: 1}),
				sparseInstance(0, 1, 100, sparse.Entry{Index: 97, Value: -2}),
			},
			dim:        100,
			wantSparse: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := FromInstances(tt.instances, tt.dim)
			require.NoError(t, err)
			_, isSparse := b.Matrix.(SparseMatrix)
			assert.Equal(t, tt.wantSparse, isSparse)
			assert.Equal(t, len(tt.instances), b.NumRows())
			assert.Equal(t, tt.dim, b.NumFeatures())
			for i, inst := range tt.instances {
				got := b.Instance(i)
				assert.Equal(t, inst.Label, got.Label)
				assert.Equal(t, inst.Weight, got.Weight)
				assert.Equal(t, sparse.ToDense(inst.Features),
					sparse.ToDense(got.Features))
			}
		})
	}
}

func TestFromInstances_Errors(t *testing.T) {
	_, err := FromInstances(nil, 3)
	assert.Error(t, err)
	_, err = FromInstances([]Instance{{1, 1, sparse.Dense{1, 2}}}, 3)
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
}

func TestDenseMatrix_MulVecTo(t *testing.T) {
	m, err := NewDenseMatrix(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	require.NoError(t, err)
	y := []float64{100, 100}
	require.NoError(t, m.MulVecTo(y, 0, []float64{1, 0, -1}))
	assert.Equal(t, []float64{-2, -2}, y)
	y = []float64{1, 1}
	require.NoError(t, m.MulVecTo(y, 1, []float64{1, 0, -1}))
	assert.Equal(t, []float64{-1, -1}, y)

	z := []float64{1, 1, 1}
	require.NoError(t, m.MulTransVecTo(z, 1, []float64{1, 2}))
	assert.Equal(t, []float64{10, 13, 16}, z)

	err = m.MulVecTo(y, 0, []float64{1})
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
	assert.Equal(t, sparse.Dense{4, 5, 6}, m.RowVector(1))
}

func TestNewDenseMatrix_Errors(t *testing.T) {
	_, err := NewDenseMatrix(0, 3, nil)
	assert.Error(t, err)
	_, err = NewDenseMatrix(2, 2, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
}

func TestNewBlock(t *testing.T) {
	m, err := NewDenseMatrix(2, 1, nil)
	require.NoError(t, err)
	b, err := NewBlock(m, []float64{0, 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, b.Weights)
	_, err = NewBlock(m, []float64{0}, nil)
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
	_, err = NewBlock(m, []float64{0, 1}, []float64{1})
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
	assert.Len(t, b.Instances(), 2)
}

func makeInstances(n, dim int) []Instance {
	instances := make([]Instance, n)
	for i := range instances {
		d := make(sparse.Dense, dim)
		d[i%dim] = float64(i + 1)
		instances[i] = Instance{Label: float64(i % 2), Weight: 1, Features: d}
	}
	return instances
}

func TestBlockify(t *testing.T) {
	instances := makeInstances(7, 4)
	blocks, err := Blockify(instances, 4, 3)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, 3, blocks[0].NumRows())
	assert.Equal(t, 3, blocks[1].NumRows())
	assert.Equal(t, 1, blocks[2].NumRows())
	assert.Equal(t, instances[6].Label, blocks[2].Labels[0])

	_, err = Blockify(instances, 4, 0)
	assert.Error(t, err)
}

func TestBlockifyWithMaxMemUsage(t *testing.T) {
	instances := makeInstances(10, 2) // 16 + 16 bytes each
	size := InstanceSize(instances[0])
	assert.Equal(t, int64(32), size)

	blocks, err := BlockifyWithMaxMemUsage(instances, 2, 4*size)
	require.NoError(t, err)
	var rows []int
	for _, b := range blocks {
		rows = append(rows, b.NumRows())
	}
	assert.Equal(t, []int{4, 4, 2}, rows)

	// a budget below one instance still yields one instance per block
	blocks, err = BlockifyWithMaxMemUsage(instances, 2, 1)
	require.NoError(t, err)
	assert.Len(t, blocks, 10)

	_, err = BlockifyWithMaxMemUsage(instances, 2, 0)
	assert.Error(t, err)
}

func TestPartition(t *testing.T) {
	instances := makeInstances(7, 2)
	tests := []struct {
		n     int
		sizes []int
	}{
		{1, []int{7}},
		{3, []int{3, 2, 2}},
		{7, []int{1, 1, 1, 1, 1, 1, 1}},
		{9, []int{1, 1, 1, 1, 1, 1, 1, 0, 0}},
		{0, []int{7}},
	}
	for _, tt := range tests {
		partitions := Partition(instances, tt.n)
		var sizes []int
		total := 0
		for _, p := range partitions {
			sizes = append(sizes, len(p))
			total += len(p)
		}
		assert.Equal(t, tt.sizes, sizes, "n=%d", tt.n)
		assert.Equal(t, 7, total)
	}
}
