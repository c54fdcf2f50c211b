package sparse

import "iter"

// Features is a read-only feature (or coefficient) vector
// stored either sparsely (*Vector) or densely (Dense).
type Features interface {
	// Len returns the logical dimension of the vector.
	Len() int

	// NonZeros yields (index, value) pairs of non-zero elements
	// in ascending index order.  The sequence may be iterated repeatedly.
	NonZeros() iter.Seq2[int, float64]
}

// Dense is a dense vector.
type Dense []float64

// Len returns the vector length.
func (d Dense) Len() int { return len(d) }

// NonZeros yields the non-zero elements, skipping explicit zeros.
func (d Dense) NonZeros() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for i, v := range d {
			if v != 0 && !yield(i, v) {
				return
			}
		}
	}
}

// NNZ counts non-zero elements.
func (d Dense) NNZ() (nnz int) {
	for _, v := range d {
		if v != 0 {
			nnz++
		}
	}
	return
}

// NonZeros yields the stored entries.
// Explicitly stored zeros are skipped.
func (v *Vector) NonZeros() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for _, e := range v.Entries {
			if e.Value != 0 && !yield(e.Index, e.Value) {
				return
			}
		}
	}
}

// Len returns the vector dimension.
func (v *Vector) Len() int { return v.Dim }

// NNZ counts the non-zero elements of any Features.
func NNZ(f Features) int {
	switch f := f.(type) {
	case Dense:
		return f.NNZ()
	case *Vector:
		return f.NNZ()
	}
	nnz := 0
	for range f.NonZeros() {
		nnz++
	}
	return nnz
}

// Dot computes the dot product of the given features and a dense vector,
// visiting only the non-zero features.
func Dot(f Features, d Dense) float64 {
	var sum float64
	for i, v := range f.NonZeros() {
		sum += v * d[i]
	}
	return sum
}

// Axpy adds a*f into the dense vector y, visiting only the non-zero features.
func Axpy(a float64, f Features, y Dense) {
	for i, v := range f.NonZeros() {
		y[i] += a * v
	}
}

// ToDense returns a dense copy of the given features.
func ToDense(f Features) Dense {
	d := make(Dense, f.Len())
	for i, v := range f.NonZeros() {
		d[i] = v
	}
	return d
}
