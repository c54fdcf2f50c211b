package dataset

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
	"k3l.io/go-hinge/pkg/sparse"
)

// Matrix is an instance-by-feature matrix of a Block.
//
// SparseMatrix and *DenseMatrix implement Matrix.
type Matrix interface {
	// Dims returns the numbers of rows (instances) and columns (features).
	Dims() (rows, cols int)

	// MulVecTo computes y = A*x + beta*y.
	MulVecTo(y []float64, beta float64, x []float64) error

	// MulTransVecTo computes y = transpose(A)*x + beta*y.
	MulTransVecTo(y []float64, beta float64, x []float64) error

	// RowVector returns the features of the given row.
	RowVector(i int) sparse.Features
}

// SparseMatrix adapts a sparse.CSRMatrix to Matrix.
type SparseMatrix struct {
	*sparse.CSRMatrix
}

// RowVector returns the given row, sharing its entries.
func (m SparseMatrix) RowVector(i int) sparse.Features {
	return m.CSRMatrix.RowVector(i)
}

// DenseMatrix is a row-major dense Matrix backed by gonum.
// Products go through BLAS gemv.
type DenseMatrix struct {
	m *mat.Dense
}

// NewDenseMatrix creates a rows x cols dense matrix over the given
// row-major data; if data is nil, a zero matrix is allocated.
func NewDenseMatrix(rows, cols int, data []float64) (*DenseMatrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, sparse.DimensionMismatchError{Want: 1, Got: min(rows, cols)}
	}
	if data != nil {
		if err := sparse.CheckDim(rows*cols, len(data)); err != nil {
			return nil, err
		}
	}
	return &DenseMatrix{m: mat.NewDense(rows, cols, data)}, nil
}

// Dense returns the underlying gonum matrix.
func (d *DenseMatrix) Dense() *mat.Dense { return d.m }

// Dims returns the numbers of rows/columns.
func (d *DenseMatrix) Dims() (rows, cols int) { return d.m.Dims() }

// RowVector returns a copy of the given row.
func (d *DenseMatrix) RowVector(i int) sparse.Features {
	return sparse.Dense(mat.Row(nil, i, d.m))
}

func (d *DenseMatrix) gemv(
	t blas.Transpose, xLen, yLen int, y []float64, beta float64, x []float64,
) error {
	if err := sparse.CheckDim(xLen, len(x)); err != nil {
		return err
	}
	if err := sparse.CheckDim(yLen, len(y)); err != nil {
		return err
	}
	blas64.Gemv(t, 1, d.m.RawMatrix(),
		blas64.Vector{N: len(x), Data: x, Inc: 1},
		beta,
		blas64.Vector{N: len(y), Data: y, Inc: 1})
	return nil
}

// MulVecTo computes y = A*x + beta*y.
func (d *DenseMatrix) MulVecTo(y []float64, beta float64, x []float64) error {
	rows, cols := d.Dims()
	return d.gemv(blas.NoTrans, cols, rows, y, beta, x)
}

// MulTransVecTo computes y = transpose(A)*x + beta*y.
func (d *DenseMatrix) MulTransVecTo(
	y []float64, beta float64, x []float64,
) error {
	rows, cols := d.Dims()
	return d.gemv(blas.Trans, rows, cols, y, beta, x)
}
