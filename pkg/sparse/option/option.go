package spopt

type Option = OptionForSet[Set]

var Noop = NoopForSet[Set]()

// WithOptions replace the current option set with the given one.
func WithOptions(options *Set) Option {
	return func(o *Set) {
		*o = *options
	}
}

func FixedDim(rows, columns int) Option {
	return func(o *Set) { FixedAxisDim(rows)(o.Row); FixedAxisDim(columns)(o.Column) }
}
func FixedRows(dim int) Option    { return func(o *Set) { FixedAxisDim(dim)(o.Row) } }
func FixedColumns(dim int) Option { return func(o *Set) { FixedAxisDim(dim)(o.Column) } }

func MinDim(rows, columns int) Option {
	return func(o *Set) { MinAxisDim(rows)(o.Row); MinAxisDim(columns)(o.Column) }
}
func MinRows(dim int) Option    { return func(o *Set) { MinAxisDim(dim)(o.Row) } }
func MinColumns(dim int) Option { return func(o *Set) { MinAxisDim(dim)(o.Column) } }

func IncludeZeroSetTo(include bool) Option {
	return func(o *Set) { IncludeZeroValueSetTo(include)(o.Value) }
}
func IncludeZero(o *Set) { IncludeZeroValue(o.Value) }
func ExcludeZero(o *Set) { ExcludeZeroValue(o.Value) }

func AllowNegativeSetTo(allow bool) Option {
	return func(o *Set) { AllowNegativeValueSetTo(allow)(o.Value) }
}
func AllowNegative(o *Set)    { AllowNegativeValue(o.Value) }
func DisallowNegative(o *Set) { DisallowNegativeValue(o.Value) }

// OptionForSet is a function that modifies an option set of type O.
type OptionForSet[O any] func(*O)

// NoopForSet is a pseudo-option that changes nothing.
func NoopForSet[O any]() OptionForSet[O] {
	return func(*O) {}
}

// resetter is an option set pointer that can restore its own defaults.
type resetter[O any] interface {
	*O
	Reset()
}

func newForSet[O any, P resetter[O]](opts ...OptionForSet[O]) *O {
	o := new(O)
	resetAndApply[O, P](o, opts...)
	return o
}

func resetAndApply[O any, P resetter[O]](o *O, opts ...OptionForSet[O]) {
	P(o).Reset()
	for _, opt := range opts {
		opt(o)
	}
}
