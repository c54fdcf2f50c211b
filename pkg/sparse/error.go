package sparse

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch signals a dimension mismatch
// between related data structures,
// ex: a feature vector and the coefficients it is multiplied with.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DimensionMismatchError is an ErrDimensionMismatch
// that records the expected and the actual dimension.
type DimensionMismatchError struct {
	Want, Got int
}

func (e DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: want %d, got %d", e.Want, e.Got)
}

func (e DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// CheckDim returns a DimensionMismatchError unless got == want.
func CheckDim(want, got int) error {
	if want != got {
		return DimensionMismatchError{Want: want, Got: got}
	}
	return nil
}

// NegativeValueError signals a negative-valued entry was encountered
// where disallowed.
type NegativeValueError struct {
	Value float64
}

func (e NegativeValueError) Error() string {
	return fmt.Sprintf("negative value %#v not allowed", e.Value)
}
