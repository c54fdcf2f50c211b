package dataset

import (
	"github.com/go-faster/errors"
	"k3l.io/go-hinge/pkg/sparse"
	"k3l.io/go-hinge/pkg/util"
)

// Block is a batch of instances packed for matrix-based processing:
// an N x numFeatures matrix plus parallel label and weight arrays.
type Block struct {
	Matrix  Matrix
	Labels  []float64
	Weights []float64
}

// NewBlock creates a block over the given matrix, labels, and weights.
// A nil weights slice means every row has unit weight.
func NewBlock(m Matrix, labels, weights []float64) (*Block, error) {
	rows, _ := m.Dims()
	if err := sparse.CheckDim(rows, len(labels)); err != nil {
		return nil, errors.Wrap(err, "labels")
	}
	if weights == nil {
		weights = make([]float64, rows)
		for i := range weights {
			weights[i] = 1
		}
	} else if err := sparse.CheckDim(rows, len(weights)); err != nil {
		return nil, errors.Wrap(err, "weights")
	}
	return &Block{Matrix: m, Labels: labels, Weights: weights}, nil
}

// NumRows returns the number of instances in the block.
func (b *Block) NumRows() int {
	rows, _ := b.Matrix.Dims()
	return rows
}

// NumFeatures returns the number of features (matrix columns).
func (b *Block) NumFeatures() int {
	_, cols := b.Matrix.Dims()
	return cols
}

// Instance returns the i-th instance of the block.
func (b *Block) Instance(i int) Instance {
	return Instance{
		Label:    b.Labels[i],
		Weight:   b.Weights[i],
		Features: b.Matrix.RowVector(i),
	}
}

// Instances unpacks the block.
func (b *Block) Instances() []Instance {
	instances := make([]Instance, b.NumRows())
	for i := range instances {
		instances[i] = b.Instance(i)
	}
	return instances
}

// Storage size estimates, in bytes, of the two matrix representations.
func denseMatrixSize(rows, cols int) int64 {
	return 8 * int64(rows) * int64(cols)
}

func sparseMatrixSize(rows, nnz int) int64 {
	// int column index + float64 value per entry, plus row pointers
	return 16*int64(nnz) + 8*int64(rows+1)
}

// InstanceSize estimates the in-block storage size of one instance,
// in bytes, taking the cheaper of dense and sparse row storage.
func InstanceSize(inst Instance) int64 {
	n := inst.Features.Len()
	return 16 + min(denseMatrixSize(1, n),
		sparseMatrixSize(1, sparse.NNZ(inst.Features))-8)
}

// FromInstances packs the given instances into one block.
//
// The matrix is stored in CSR form if that is estimated to be smaller
// than dense row-major storage; otherwise it is dense.
func FromInstances(instances []Instance, numFeatures int) (*Block, error) {
	if len(instances) == 0 {
		return nil, errors.New("cannot make a block of no instances")
	}
	labels := make([]float64, len(instances))
	weights := make([]float64, len(instances))
	rows := make([]sparse.Features, len(instances))
	nnz := 0
	for i, inst := range instances {
		if err := sparse.CheckDim(numFeatures, inst.NumFeatures()); err != nil {
			return nil, errors.Wrapf(err, "instance #%d", i)
		}
		labels[i], weights[i], rows[i] = inst.Label, inst.Weight, inst.Features
		nnz += sparse.NNZ(inst.Features)
	}
	var m Matrix
	if sparseMatrixSize(len(rows), nnz) < denseMatrixSize(len(rows), numFeatures) {
		csr, err := sparse.NewCSRMatrixFromRows(numFeatures, rows)
		if err != nil {
			return nil, err
		}
		m = SparseMatrix{csr}
	} else {
		data := make([]float64, len(rows)*numFeatures)
		for i, row := range rows {
			offset := i * numFeatures
			for j, value := range row.NonZeros() {
				data[offset+j] = value
			}
		}
		dense, err := NewDenseMatrix(len(rows), numFeatures, data)
		if err != nil {
			return nil, err
		}
		m = dense
	}
	return NewBlock(m, labels, weights)
}

// Blockify packs instances into blocks of at most maxRows rows each.
func Blockify(
	instances []Instance, numFeatures int, maxRows int,
) ([]*Block, error) {
	if maxRows <= 0 {
		return nil, errors.Errorf("maxRows=%d must be positive", maxRows)
	}
	return util.MapWithErr(util.Chunk(instances, maxRows),
		func(chunk []Instance) (*Block, error) {
			return FromInstances(chunk, numFeatures)
		})
}

// BlockifyWithMaxMemUsage packs instances into blocks
// whose estimated storage stays within maxBytes.
// A single instance larger than maxBytes still gets its own block.
func BlockifyWithMaxMemUsage(
	instances []Instance, numFeatures int, maxBytes int64,
) ([]*Block, error) {
	if maxBytes <= 0 {
		return nil, errors.Errorf("maxBytes=%d must be positive", maxBytes)
	}
	var (
		blocks []*Block
		start  int
		used   int64
	)
	flush := func(end int) error {
		block, err := FromInstances(instances[start:end], numFeatures)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
		start, used = end, 0
		return nil
	}
	for i, inst := range instances {
		size := InstanceSize(inst)
		if i > start && used+size > maxBytes {
			if err := flush(i); err != nil {
				return nil, err
			}
		}
		used += size
	}
	if start < len(instances) {
		if err := flush(len(instances)); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}
