// Package hinge implements a mergeable hinge-loss aggregator
// for linear binary classifiers trained on partitioned data.
package hinge

import (
	"github.com/go-faster/errors"
	"gonum.org/v1/gonum/floats"
	"k3l.io/go-hinge/pkg/dataset"
	"k3l.io/go-hinge/pkg/sparse"
)

// Aggregator accumulates the weighted hinge loss and its gradient
// over instances evaluated against one fixed coefficient vector.
//
// Aggregators of disjoint partitions combine with Merge.
// An Aggregator is not safe for concurrent use.
type Aggregator struct {
	coefficients *Coefficients
	lossSum      sparse.KBNSummer
	weightSum    sparse.KBNSummer
	// gradientSum[numFeatures], if present, is the intercept gradient.
	gradientSum []float64
	stats       Stats
}

// Stats counts what went into an aggregator.
type Stats struct {
	// Rows is the number of positive-weight instances added.
	Rows int64

	// Blocks is the number of blocks added.
	Blocks int64

	// ShortCircuitedBlocks is the number of blocks whose rows all had
	// zero gradient scale, so back-projection was skipped.
	ShortCircuitedBlocks int64
}

func (s *Stats) merge(other Stats) {
	s.Rows += other.Rows
	s.Blocks += other.Blocks
	s.ShortCircuitedBlocks += other.ShortCircuitedBlocks
}

// New creates an empty aggregator for the given coefficients.
//
// coefficients must be a sparse.Dense of numFeatures elements,
// followed by the intercept if fitIntercept is true.
func New(
	numFeatures int, fitIntercept bool, coefficients sparse.Features,
) (*Aggregator, error) {
	c, err := NewCoefficients(numFeatures, fitIntercept, coefficients)
	if err != nil {
		return nil, err
	}
	return NewWithCoefficients(c), nil
}

// NewWithCoefficients creates an empty aggregator
// for an already validated coefficient view.
func NewWithCoefficients(c *Coefficients) *Aggregator {
	return &Aggregator{
		coefficients: c,
		gradientSum:  make([]float64, c.Dim()),
	}
}

// Coefficients returns the coefficient view.
func (a *Aggregator) Coefficients() *Coefficients { return a.coefficients }

// Dim returns the gradient dimension, including the intercept slot.
func (a *Aggregator) Dim() int { return len(a.gradientSum) }

// NumFeatures returns the number of features.
func (a *Aggregator) NumFeatures() int { return a.coefficients.NumFeatures() }

// LossSum returns the total weighted loss.
func (a *Aggregator) LossSum() float64 { return a.lossSum.Sum() }

// WeightSum returns the total weight of added instances.
func (a *Aggregator) WeightSum() float64 { return a.weightSum.Sum() }

// GradientSum returns a copy of the total weighted gradient.
func (a *Aggregator) GradientSum() []float64 {
	return append([]float64(nil), a.gradientSum...)
}

// Stats returns the counts of added rows and blocks.
func (a *Aggregator) Stats() Stats { return a.stats }

// Loss returns the mean loss, lossSum/weightSum.
func (a *Aggregator) Loss() (float64, error) {
	weightSum := a.WeightSum()
	if weightSum == 0 {
		return 0, ErrZeroWeightSum
	}
	return a.LossSum() / weightSum, nil
}

// Gradient returns the mean gradient, gradientSum/weightSum.
func (a *Aggregator) Gradient() ([]float64, error) {
	weightSum := a.WeightSum()
	if weightSum == 0 {
		return nil, ErrZeroWeightSum
	}
	gradient := a.GradientSum()
	floats.Scale(1/weightSum, gradient)
	return gradient, nil
}

// Add accumulates one instance, using sparse dot products.
//
// Zero-weight instances are ignored.
// On error, the aggregator is left unchanged.
func (a *Aggregator) Add(inst dataset.Instance) (*Aggregator, error) {
	if inst.Features == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil features")
	}
	if err := sparse.CheckDim(a.NumFeatures(), inst.Features.Len()); err != nil {
		return nil, errors.Wrap(err, "instance features")
	}
	if v, ok := inst.Features.(*sparse.Vector); ok {
		if err := v.Validate(); err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument,
				"instance features: %v", err)
		}
	}
	if !(inst.Weight >= 0) {
		return nil, NegativeWeightError{Row: -1, Weight: inst.Weight}
	}
	if inst.Weight == 0 {
		return a, nil
	}
	c := a.coefficients
	signedLabel := 2*inst.Label - 1
	margin := signedLabel * c.Margin(inst.Features)
	if 1 > margin {
		scale := -signedLabel * inst.Weight
		sparse.Axpy(scale, inst.Features, a.gradientSum)
		if c.FitIntercept() {
			a.gradientSum[a.NumFeatures()] += scale
		}
		a.lossSum.Add(inst.Weight * (1 - margin))
	}
	a.weightSum.Add(inst.Weight)
	a.stats.Rows++
	return a, nil
}

// AddBlock accumulates a block of instances, using matrix-vector products.
//
// The result equals that of adding the block's rows one by one with Add,
// up to floating-point rounding.  If no row of the block
// has a non-zero gradient, back-projection onto the gradient is skipped.
// On error, the aggregator is left unchanged.
func (a *Aggregator) AddBlock(block *dataset.Block) (*Aggregator, error) {
	if block == nil || block.Matrix == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil block")
	}
	numFeatures := a.NumFeatures()
	if err := sparse.CheckDim(numFeatures, block.NumFeatures()); err != nil {
		return nil, errors.Wrap(err, "block features")
	}
	numRows := block.NumRows()
	if err := sparse.CheckDim(numRows, len(block.Labels)); err != nil {
		return nil, errors.Wrap(err, "block labels")
	}
	if err := sparse.CheckDim(numRows, len(block.Weights)); err != nil {
		return nil, errors.Wrap(err, "block weights")
	}
	allZero := true
	for i, weight := range block.Weights {
		if !(weight >= 0) {
			return nil, NegativeWeightError{Row: i, Weight: weight}
		}
		if weight != 0 {
			allZero = false
		}
	}
	if allZero {
		return a, nil
	}
	c := a.coefficients

	// margins = matrix * linear (+ intercept)
	margins := make([]float64, numRows)
	var beta float64
	if c.FitIntercept() && c.Intercept() != 0 {
		for i := range margins {
			margins[i] = c.Intercept()
		}
		beta = 1
	}
	if err := block.Matrix.MulVecTo(margins, beta, c.Linear()); err != nil {
		return nil, errors.Wrap(err, "cannot compute margins")
	}

	// From here on, margins are overwritten in place by gradient scales.
	scales := margins
	var lossSum, weightSum sparse.KBNSummer
	var rows int64
	allZero = true
	for i, margin := range scales {
		weight := block.Weights[i]
		if weight == 0 {
			scales[i] = 0
			continue
		}
		rows++
		weightSum.Add(weight)
		signedLabel := 2*block.Labels[i] - 1
		loss := weight * (1 - signedLabel*margin)
		if loss > 0 {
			lossSum.Add(loss)
			scales[i] = -signedLabel * weight
			allZero = false
		} else {
			scales[i] = 0
		}
	}

	if !allZero {
		if c.FitIntercept() {
			featureGrad := make([]float64, numFeatures)
			err := block.Matrix.MulTransVecTo(featureGrad, 0, scales)
			if err != nil {
				return nil, errors.Wrap(err, "cannot back-project gradient")
			}
			for i, v := range featureGrad {
				if v != 0 {
					a.gradientSum[i] += v
				}
			}
			a.gradientSum[numFeatures] += floats.Sum(scales)
		} else {
			err := block.Matrix.MulTransVecTo(a.gradientSum, 1, scales)
			if err != nil {
				return nil, errors.Wrap(err, "cannot back-project gradient")
			}
		}
	} else {
		a.stats.ShortCircuitedBlocks++
	}
	a.lossSum.Merge(lossSum)
	a.weightSum.Merge(weightSum)
	a.stats.Rows += rows
	a.stats.Blocks++
	return a, nil
}

// Merge adds the partial sums of other into the receiver.
//
// Merge is associative and commutative
// up to floating-point summation order.
func (a *Aggregator) Merge(other *Aggregator) (*Aggregator, error) {
	if other == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil aggregator")
	}
	if err := sparse.CheckDim(a.Dim(), other.Dim()); err != nil {
		return nil, errors.Wrap(err, "cannot merge")
	}
	floats.Add(a.gradientSum, other.gradientSum)
	a.lossSum.Merge(other.lossSum)
	a.weightSum.Merge(other.weightSum)
	a.stats.merge(other.stats)
	return a, nil
}
