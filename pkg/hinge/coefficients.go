package hinge

import (
	"fmt"

	"github.com/go-faster/errors"
	"k3l.io/go-hinge/pkg/sparse"
)

// Coefficients is a read-only view of a flat coefficient buffer:
// numFeatures linear weights, optionally followed by the intercept.
//
// The view references (does not copy) the buffer,
// which must not be mutated while any aggregator uses it.
type Coefficients struct {
	all          sparse.Dense
	linear       sparse.Dense
	intercept    float64
	fitIntercept bool
}

// NewCoefficients creates a coefficient view over the given buffer.
//
// The buffer must be sparse.Dense with numFeatures (+1 if fitIntercept)
// elements.
func NewCoefficients(
	numFeatures int, fitIntercept bool, buffer sparse.Features,
) (*Coefficients, error) {
	if numFeatures <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument,
			"numFeatures=%d must be positive", numFeatures)
	}
	all, ok := buffer.(sparse.Dense)
	if !ok {
		return nil, NotDenseError{Type: fmt.Sprintf("%T", buffer)}
	}
	dim := numFeatures
	if fitIntercept {
		dim++
	}
	if err := sparse.CheckDim(dim, len(all)); err != nil {
		return nil, errors.Wrap(err, "coefficients")
	}
	c := &Coefficients{
		all:          all,
		linear:       all[:numFeatures:numFeatures],
		fitIntercept: fitIntercept,
	}
	if fitIntercept {
		c.intercept = all[numFeatures]
	}
	return c, nil
}

// All returns the whole buffer, intercept included.
func (c *Coefficients) All() sparse.Dense { return c.all }

// Linear returns the linear weights, without the intercept.
func (c *Coefficients) Linear() sparse.Dense { return c.linear }

// Intercept returns the intercept, or 0 if there is none.
func (c *Coefficients) Intercept() float64 { return c.intercept }

// FitIntercept returns whether the buffer carries an intercept.
func (c *Coefficients) FitIntercept() bool { return c.fitIntercept }

// NumFeatures returns the number of linear weights.
func (c *Coefficients) NumFeatures() int { return len(c.linear) }

// Dim returns the buffer length.
func (c *Coefficients) Dim() int { return len(c.all) }

// Margin computes the linear score of the given features.
func (c *Coefficients) Margin(features sparse.Features) float64 {
	return sparse.Dot(features, c.linear) + c.intercept
}
