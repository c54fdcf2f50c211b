package sparse

import (
	"math"
)

// KBNSummer is the Kahan-Babushka-Neumaier compensated summation algorithm.
//
// The zero value is an empty sum.
type KBNSummer struct {
	sum, compensation float64
}

func (s *KBNSummer) Add(value float64) {
	moreSig, lessSig := s.sum, value
	if math.Abs(moreSig) < math.Abs(lessSig) {
		moreSig, lessSig = lessSig, moreSig
	}
	s.sum += value
	// During summation above, essentially moreSig + lessSig,
	// lessSig's exponent were brought up to match moreSig's,
	// so lessSig had low-order bits truncated.
	// Recover this "truncated lessSig" used in the addition.
	truncatedLessSig := s.sum - moreSig
	// Now lessSig and truncatedLessSig should be back on the same
	// exponent scale; the difference is the truncated bits (error).
	s.compensation += lessSig - truncatedLessSig
}

// Merge adds another partial sum into the receiver,
// carrying over its compensation term.
func (s *KBNSummer) Merge(other KBNSummer) {
	s.Add(other.sum)
	s.compensation += other.compensation
}

func (s *KBNSummer) Sum() float64 {
	return s.sum + s.compensation
}
