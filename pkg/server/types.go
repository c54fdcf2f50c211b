package server

import (
	"github.com/go-faster/errors"
	"k3l.io/go-hinge/pkg/dataset"
	"k3l.io/go-hinge/pkg/sparse"
)

// EvaluateRequest is the body of an evaluate request.
type EvaluateRequest struct {
	NumFeatures  int               `json:"numFeatures"`
	FitIntercept bool              `json:"fitIntercept"`
	Coefficients []float64         `json:"coefficients"`
	Instances    []RequestInstance `json:"instances"`

	// BlockRows, if positive, packs each partition into blocks
	// of at most this many rows; otherwise instances are added one by one.
	BlockRows int `json:"blockRows,omitempty"`

	// Partitions is the number of partitions to evaluate concurrently,
	// 1 if unset.
	Partitions int `json:"partitions,omitempty"`
}

// RequestInstance is one training instance in an EvaluateRequest,
// with either Dense or Indices+Values features.
type RequestInstance struct {
	Label float64 `json:"label"`

	// Weight defaults to 1.
	Weight *float64 `json:"weight,omitempty"`

	Dense []float64 `json:"dense,omitempty"`

	// Indices are 0-based feature indices of Values.
	Indices []int     `json:"indices,omitempty"`
	Values  []float64 `json:"values,omitempty"`
}

// EvaluateResponse is the body of a successful evaluate response.
type EvaluateResponse struct {
	Loss      float64   `json:"loss"`
	Gradient  []float64 `json:"gradient"`
	LossSum   float64   `json:"lossSum"`
	WeightSum float64   `json:"weightSum"`
}

func (ri *RequestInstance) toInstance(numFeatures int) (dataset.Instance, error) {
	inst := dataset.Instance{Weight: 1}
	label, err := dataset.NormalizeLabel(ri.Label)
	if err != nil {
		return inst, err
	}
	inst.Label = label
	if ri.Weight != nil {
		inst.Weight = *ri.Weight
	}
	switch {
	case ri.Dense != nil && (ri.Indices != nil || ri.Values != nil):
		return inst, errors.New("dense and sparse features are exclusive")
	case ri.Dense != nil:
		if err := sparse.CheckDim(numFeatures, len(ri.Dense)); err != nil {
			return inst, errors.Wrap(err, "dense features")
		}
		inst.Features = sparse.Dense(ri.Dense)
	default:
		if err := sparse.CheckDim(len(ri.Indices), len(ri.Values)); err != nil {
			return inst, errors.Wrap(err, "sparse feature values")
		}
		entries := make([]sparse.Entry, len(ri.Indices))
		for i, index := range ri.Indices {
			entries[i] = sparse.Entry{Index: index, Value: ri.Values[i]}
		}
		v := sparse.NewVector(numFeatures, entries)
		if err := v.Validate(); err != nil {
			return inst, errors.Wrap(err, "sparse features")
		}
		inst.Features = v
	}
	return inst, nil
}
