package hinge

import (
	"fmt"

	"github.com/go-faster/errors"
	"k3l.io/go-hinge/pkg/sparse"
)

// ErrDimensionMismatch signals an instance, block, coefficient vector,
// or merge operand whose dimension disagrees with the aggregator's.
var ErrDimensionMismatch = sparse.ErrDimensionMismatch

// ErrInvalidArgument signals a negative weight,
// a non-dense coefficient buffer, or an invalid configuration.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrZeroWeightSum signals that the mean loss/gradient is undefined
// because no instance with positive weight has been added.
var ErrZeroWeightSum = errors.New("zero weight sum")

// NegativeWeightError is an ErrInvalidArgument
// signaling an instance weight that is negative or NaN.
type NegativeWeightError struct {
	// Row is the row index within a block, or -1 for a single instance.
	Row    int
	Weight float64
}

func (e NegativeWeightError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("instance weight %v is not >= 0", e.Weight)
	}
	return fmt.Sprintf("weight %v in block row %d is not >= 0",
		e.Weight, e.Row)
}

func (e NegativeWeightError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NotDenseError is an ErrInvalidArgument
// signaling a coefficient buffer in a non-dense representation.
type NotDenseError struct {
	Type string
}

func (e NotDenseError) Error() string {
	return fmt.Sprintf("coefficients must be dense, not %s", e.Type)
}

func (e NotDenseError) Is(target error) bool {
	return target == ErrInvalidArgument
}
