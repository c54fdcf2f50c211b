package sparse

import (
	"context"
	"sort"

	spopt "k3l.io/go-hinge/pkg/sparse/option"
	"k3l.io/go-hinge/pkg/util"
)

// CSMatrix is a compressed sparse matrix, the base of CSRMatrix.
//
// (Shallow-)copying CSMatrix is lightweight.
type CSMatrix struct {
	MajorDim, MinorDim int
	Entries            [][]Entry
}

// NewCSMatrixFromEntries creates a new compressed sparse matrix
// with the given entries.
func NewCSMatrixFromEntries(
	ctx context.Context, entries []CooEntry, opts ...spopt.Option,
) (*CSMatrix, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan CooEntry)
	sendErr := make(chan error, 1)
	go func() {
		defer close(ch)
		defer close(sendErr)
		sendErr <- util.SendElements(ctx, entries, ch)
	}()
	m, err := NewCSMatrixFromEntryCh(ctx, ch, opts...)
	if err == nil {
		err = util.ErrFromCh(ctx, sendErr)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewCSMatrixFromEntryCh creates a new compressed sparse matrix
// with the entries taken from a channel.
// Rows are the major axis, columns the minor axis.
func NewCSMatrixFromEntryCh(
	ctx context.Context, ch <-chan CooEntry, opts ...spopt.Option,
) (*CSMatrix, error) {
	o := spopt.New(opts...)
	m := &CSMatrix{
		MajorDim: o.Row.Dim,
		MinorDim: o.Column.Dim,
		Entries:  make([][]Entry, o.Row.Dim),
	}
EntryLoop:
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case e, ok := <-ch:
			switch {
			case !ok:
				break EntryLoop
			case e.Value == 0 && !o.Value.IncludeZero:
				continue EntryLoop
			case e.Value < 0 && !o.Value.AllowNegative:
				return nil, NegativeValueError{e.Value}
			case e.Row < 0:
				return nil, util.IndexOutOfBoundsError{
					Index: e.Row, Bound: m.MajorDim,
				}
			case e.Column < 0:
				return nil, util.IndexOutOfBoundsError{
					Index: e.Column, Bound: m.MinorDim,
				}
			}
			if e.Row >= m.MajorDim {
				if !o.Row.Grow {
					return nil, util.IndexOutOfBoundsError{
						Index: e.Row, Bound: m.MajorDim,
					}
				}
				m.SetMajorDim(e.Row + 1)
			}
			if e.Column >= m.MinorDim {
				if !o.Column.Grow {
					return nil, util.IndexOutOfBoundsError{
						Index: e.Column, Bound: m.MinorDim,
					}
				}
				m.SetMinorDim(e.Column + 1)
			}
			m.Entries[e.Row] = append(m.Entries[e.Row], Entry{
				Index: e.Column,
				Value: e.Value,
			})
		}
	}
	for major, span := range m.Entries {
		m.Entries[major] = util.ShrinkWrap(SortEntriesByIndex(span))
	}
	return m, nil
}

// SetMajorDim grows/shrinks the receiver in-place,
// so it matches the given major dimension.
func (m *CSMatrix) SetMajorDim(dim int) {
	m.Entries = util.GrowCap(m.Entries, dim)
	m.Entries = m.Entries[:dim]
	m.MajorDim = dim
}

// SetMinorDim grows/shrinks the receiver in-place,
// so it matches the given minor dimension.
func (m *CSMatrix) SetMinorDim(dim int) {
	if dim < m.MinorDim {
		for maj, entries := range m.Entries {
			end := sort.Search(len(entries),
				func(i int) bool { return entries[i].Index >= dim })
			m.Entries[maj] = entries[:end]
		}
	}
	m.MinorDim = dim
}

// NNZ counts nonzero entries.
func (m *CSMatrix) NNZ() (nnz int) {
	for _, row := range m.Entries {
		nnz += len(row)
	}
	return
}

// CSRMatrix is a compressed sparse row matrix.
// In a block of training instances, each row holds one instance's features.
type CSRMatrix struct {
	CSMatrix
}

func cs2csr(m *CSMatrix, err error) (*CSRMatrix, error) {
	if err != nil {
		return nil, err
	}
	return &CSRMatrix{CSMatrix: *m}, nil
}

// NewCSRMatrixFromEntries creates a new compressed sparse row matrix
// with the given entries.
func NewCSRMatrixFromEntries(
	ctx context.Context, entries []CooEntry, opts ...spopt.Option,
) (*CSRMatrix, error) {
	return cs2csr(NewCSMatrixFromEntries(ctx, entries, opts...))
}

// NewCSRMatrixFromEntryCh creates a new compressed sparse row matrix
// with the entries taken from a channel.
func NewCSRMatrixFromEntryCh(
	ctx context.Context, ch <-chan CooEntry, opts ...spopt.Option,
) (*CSRMatrix, error) {
	return cs2csr(NewCSMatrixFromEntryCh(ctx, ch, opts...))
}

// NewCSRMatrixFromRows creates a compressed sparse row matrix
// whose rows are the non-zero elements of the given feature vectors.
// Every row must have exactly cols elements,
// and every non-zero index must fall within [0..cols).
func NewCSRMatrixFromRows(cols int, rows []Features) (*CSRMatrix, error) {
	var entries []CooEntry
	for i, row := range rows {
		if err := CheckDim(cols, row.Len()); err != nil {
			return nil, err
		}
		for j, value := range row.NonZeros() {
			entries = append(entries, CooEntry{Row: i, Column: j, Value: value})
		}
	}
	return NewCSRMatrixFromEntries(context.Background(), entries,
		spopt.FixedDim(len(rows), cols))
}

// Dims returns the numbers of rows/columns.
func (m *CSRMatrix) Dims() (rows, cols int) { return m.MajorDim, m.MinorDim }

// RowVector returns the given row as a sparse vector.
// The returned vector shares the same slice of entry objects.
func (m *CSRMatrix) RowVector(index int) *Vector {
	return &Vector{
		Dim:     m.MinorDim,
		Entries: m.Entries[index],
	}
}

// MulVecTo computes y = m*x + beta*y.
//
// len(x) must equal the number of columns and len(y) the number of rows.
// If beta is zero, y is overwritten without being read.
func (m *CSRMatrix) MulVecTo(y []float64, beta float64, x []float64) error {
	rows, cols := m.Dims()
	if err := CheckDim(cols, len(x)); err != nil {
		return err
	}
	if err := CheckDim(rows, len(y)); err != nil {
		return err
	}
	for i, span := range m.Entries {
		var product float64
		for _, e := range span {
			product += e.Value * x[e.Index]
		}
		if beta == 0 {
			y[i] = product
		} else {
			y[i] = beta*y[i] + product
		}
	}
	return nil
}

// MulTransVecTo computes y = transpose(m)*x + beta*y
// without materializing the transpose.
//
// len(x) must equal the number of rows and len(y) the number of columns.
// Rows whose x element is zero are skipped.
func (m *CSRMatrix) MulTransVecTo(
	y []float64, beta float64, x []float64,
) error {
	rows, cols := m.Dims()
	if err := CheckDim(rows, len(x)); err != nil {
		return err
	}
	if err := CheckDim(cols, len(y)); err != nil {
		return err
	}
	switch beta {
	case 0:
		clear(y)
	case 1:
	default:
		for j := range y {
			y[j] *= beta
		}
	}
	for i, span := range m.Entries {
		if x[i] == 0 {
			continue
		}
		for _, e := range span {
			y[e.Index] += x[i] * e.Value
		}
	}
	return nil
}

// Matrix is just an alias of CSRMatrix.
type Matrix = CSRMatrix
