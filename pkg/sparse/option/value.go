package spopt

// Value is the set of options that apply to entry values.
type Value struct {
	AllowNegative bool
	IncludeZero   bool
}

// Reset resets value options to their defaults:
// negative values are allowed (features are signed),
// explicit zeros are dropped.
func (o *Value) Reset() {
	*o = Value{}
	AllowNegativeValue(o)
	ExcludeZeroValue(o)
}

func AllowNegativeValueSetTo(allow bool) OptionForSet[Value] {
	return func(o *Value) { o.AllowNegative = allow }
}

func IncludeZeroValueSetTo(include bool) OptionForSet[Value] {
	return func(o *Value) { o.IncludeZero = include }
}

func AllowNegativeValue(o *Value)    { o.AllowNegative = true }
func DisallowNegativeValue(o *Value) { o.AllowNegative = false }
func IncludeZeroValue(o *Value)      { o.IncludeZero = true }
func ExcludeZeroValue(o *Value)      { o.IncludeZero = false }
