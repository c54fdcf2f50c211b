package sparse

import (
	"fmt"

	"k3l.io/go-hinge/pkg/util"
)

// Vector is a sparse vector.
type Vector struct {
	// Dim is the dimension of the vector.
	Dim int

	// Entries contain sparse entries, sorted by their Entry.Index.
	// For each Entry in Entries, 0 <= Entry.Index < Dim holds.
	Entries []Entry
}

// NNZ returns the number of stored entries.
func (v *Vector) NNZ() int {
	return len(v.Entries)
}

// NewVector creates and returns a new sparse vector with given entries.
// The entries are copied and sorted by index.
func NewVector(dim int, entries []Entry) *Vector {
	return &Vector{
		Dim:     dim,
		Entries: SortEntriesByIndex(append(entries[:0:0], entries...)),
	}
}

// Validate checks that entry indices are strictly ascending and in range.
func (v *Vector) Validate() error {
	prev := -1
	for _, e := range v.Entries {
		switch {
		case e.Index < 0 || e.Index >= v.Dim:
			return util.IndexOutOfBoundsError{Index: e.Index, Bound: v.Dim}
		case e.Index <= prev:
			return fmt.Errorf("entry index %d not above previous index %d",
				e.Index, prev)
		}
		prev = e.Index
	}
	return nil
}
