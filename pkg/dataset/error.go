package dataset

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrInvalidLabel signals a label outside the binary classes.
var ErrInvalidLabel = errors.New("invalid label")

// ParseError locates a parse failure in a dataset file.
type ParseError struct {
	Line int
	Err  error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// NormalizeLabel maps a class label onto {0, 1}.
// 0 and 1 map to themselves; -1 (the LIBSVM negative class) maps to 0.
func NormalizeLabel(label float64) (float64, error) {
	switch label {
	case 0, -1:
		return 0, nil
	case 1:
		return 1, nil
	}
	return 0, errors.Wrapf(ErrInvalidLabel, "%v not in {-1, 0, 1}", label)
}
