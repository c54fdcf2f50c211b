// Package spopt holds option sets for building sparse matrices.
package spopt

// New returns a new master option set with defaults + given options.
//
// See Set.Reset for the option defaults.
func New(opts ...Option) *Set { return newForSet[Set](opts...) }

// Set is the master set of sparse matrix processing options.
type Set struct {
	Row    *Axis // instances of a block
	Column *Axis // features
	Value  *Value
}

// Reset resets all options to their defaults.
//
// - Dimensions have no minimum, and can grow to accommodate incoming indices.
// - Negative entries are allowed.
// - Explicit zero entries are dropped (not included).
func (o *Set) Reset() {
	*o = Set{Row: &Axis{}, Column: &Axis{}, Value: &Value{}}
	resetAndApply(o.Row)
	resetAndApply(o.Column)
	resetAndApply(o.Value)
}
