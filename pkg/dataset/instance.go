// Package dataset holds labeled training instances
// and packs them into blocks for vectorized processing.
package dataset

import (
	"k3l.io/go-hinge/pkg/sparse"
)

// Instance is one labeled, weighted training example.
type Instance struct {
	// Label is the binary class label, 0 or 1.
	Label float64

	// Weight is the non-negative importance weight.
	Weight float64

	// Features is the feature vector, sparse or dense.
	Features sparse.Features
}

// NumFeatures returns the feature vector dimension.
func (inst Instance) NumFeatures() int { return inst.Features.Len() }

// Partition splits instances into n contiguous partitions
// whose sizes differ by at most one.
// The partitions share the backing array of instances.
// If n exceeds len(instances), the trailing partitions are empty.
func Partition(instances []Instance, n int) [][]Instance {
	if n < 1 {
		n = 1
	}
	partitions := make([][]Instance, n)
	size, extra := len(instances)/n, len(instances)%n
	start := 0
	for i := range partitions {
		end := start + size
		if i < extra {
			end++
		}
		partitions[i] = instances[start:end:end]
		start = end
	}
	return partitions
}
