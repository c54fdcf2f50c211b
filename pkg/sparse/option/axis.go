package spopt

// Axis is the set of options that apply to one matrix axis.
type Axis struct {
	Dim  int  // minimum (if grow) or fixed (if not grow) dimension
	Grow bool // whether dimension can increase to match incoming indices
}

// Reset resets all axis options to their defaults:
// no minimum Dim, and Dim grows automatically to accommodate new indices.
func (o *Axis) Reset() {
	*o = Axis{}
	MinAxisDim(0)(o)
}

// FixedAxisDim sets a fixed axis dimension;
// out-of-range indices are treated as errors.
func FixedAxisDim(dim int) OptionForSet[Axis] {
	return func(o *Axis) { o.Dim, o.Grow = dim, false }
}

// MinAxisDim sets a minimum axis dimension;
// the dimension grows to accommodate out-of-range indices.
func MinAxisDim(dim int) OptionForSet[Axis] {
	return func(o *Axis) { o.Dim, o.Grow = dim, true }
}
