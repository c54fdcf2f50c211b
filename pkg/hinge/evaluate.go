package hinge

import (
	"context"
	"math"
	"runtime"
	"slices"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"k3l.io/go-hinge/pkg/dataset"
	"k3l.io/go-hinge/pkg/sparse"
	"k3l.io/go-hinge/pkg/util"
)

const instrumentationName = "k3l.io/go-hinge/pkg/hinge"

// Partition is one shard of the training data.
// Instances are added one by one, Blocks block by block.
type Partition struct {
	Instances []dataset.Instance
	Blocks    []*dataset.Block
}

// NumRows returns the total number of instances in the partition.
func (p Partition) NumRows() (n int) {
	n = len(p.Instances)
	for _, b := range p.Blocks {
		n += b.NumRows()
	}
	return
}

// EvaluateOpts contains options for the Evaluate function.
type EvaluateOpts struct {
	numWorkers int
	treeDepth  int
	stats      *Stats
}

// EvaluateOpt is one Evaluate option.
type EvaluateOpt func(*EvaluateOpts)

// WithNumWorkers tells Evaluate to process at most n partitions at once.
// The default is GOMAXPROCS.
func WithNumWorkers(n int) EvaluateOpt {
	return func(o *EvaluateOpts) { o.numWorkers = n }
}

// WithTreeDepth tells Evaluate to merge partition aggregators
// in a tree of the given depth.  1 means a linear reduce.
// The default is 2.
func WithTreeDepth(depth int) EvaluateOpt {
	return func(o *EvaluateOpts) { o.treeDepth = depth }
}

// WithStats tells Evaluate to populate the given struct
// with the row and block counts upon completion.
func WithStats(stats *Stats) EvaluateOpt {
	return func(o *EvaluateOpts) { o.stats = stats }
}

// Evaluate computes the hinge loss aggregate of all partitions
// against the given coefficients.
//
// Each partition gets its own aggregator, filled concurrently;
// the aggregators are then merged with TreeMerge.
// With no partitions, the result is an empty aggregator.
func Evaluate(
	ctx context.Context,
	numFeatures int, fitIntercept bool, coefficients sparse.Features,
	partitions []Partition, opts ...EvaluateOpt,
) (result *Aggregator, err error) {
	o := EvaluateOpts{
		numWorkers: runtime.GOMAXPROCS(0),
		treeDepth:  2,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.numWorkers < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument,
			"numWorkers=%d must be positive", o.numWorkers)
	}
	c, err := NewCoefficients(numFeatures, fitIntercept, coefficients)
	if err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "hinge.Evaluate",
		trace.WithAttributes(
			attribute.Int("hinge.num_features", numFeatures),
			attribute.Bool("hinge.fit_intercept", fitIntercept),
			attribute.Int("hinge.partitions", len(partitions)),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	logger := ctxLogger(ctx).With().
		Int("numFeatures", numFeatures).
		Bool("fitIntercept", fitIntercept).
		Int("numPartitions", len(partitions)).
		Logger()
	tm := util.NewWallTimeLogger(logger)

	aggregators := make([]*Aggregator, len(partitions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.numWorkers)
	for i, p := range partitions {
		g.Go(func() error {
			agg, err := evaluatePartition(gctx, c, p)
			if err != nil {
				return errors.Wrapf(err, "partition #%d", i)
			}
			aggregators[i] = agg
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	tm.Log("accumulate")
	if len(aggregators) == 0 {
		result = NewWithCoefficients(c)
	} else if result, err = TreeMerge(ctx, aggregators, o.treeDepth); err != nil {
		return nil, err
	}
	tm.Log("merge")

	stats := result.Stats()
	recordStats(ctx, stats)
	if o.stats != nil {
		*o.stats = stats
	}
	logger.Debug().
		Int64("rows", stats.Rows).
		Int64("blocks", stats.Blocks).
		Int64("shortCircuitedBlocks", stats.ShortCircuitedBlocks).
		Float64("weightSum", result.WeightSum()).
		Float64("lossSum", result.LossSum()).
		Dur("elapsed", tm.LapStart.Sub(tm.LogStart)).
		Msg("evaluated")
	return result, nil
}

// instances between cancellation checks
const cancelCheckInterval = 1024

func evaluatePartition(
	ctx context.Context, c *Coefficients, p Partition,
) (*Aggregator, error) {
	agg := NewWithCoefficients(c)
	for i, block := range p.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := agg.AddBlock(block); err != nil {
			return nil, errors.Wrapf(err, "block #%d", i)
		}
	}
	for i, inst := range p.Instances {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if _, err := agg.Add(inst); err != nil {
			return nil, errors.Wrapf(err, "instance #%d", i)
		}
	}
	return agg, nil
}

func recordStats(ctx context.Context, stats Stats) {
	meter := otel.Meter(instrumentationName)
	for _, m := range []struct {
		name, desc string
		value      int64
	}{
		{"hinge.rows", "Positive-weight instances evaluated", stats.Rows},
		{"hinge.blocks", "Blocks evaluated", stats.Blocks},
		{"hinge.blocks.short_circuited",
			"Blocks evaluated without gradient back-projection",
			stats.ShortCircuitedBlocks},
	} {
		counter, err := meter.Int64Counter(m.name, metric.WithDescription(m.desc))
		if err != nil {
			otel.Handle(err)
			continue
		}
		counter.Add(ctx, m.value)
	}
}

// TreeMerge merges the given aggregators into one,
// in a tree of the given depth; depth <= 1 means a linear reduce.
//
// Merges on the same tree level run concurrently.
// The aggregators are mutated; the result is one of them.
func TreeMerge(
	ctx context.Context, aggregators []*Aggregator, depth int,
) (*Aggregator, error) {
	if len(aggregators) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "no aggregators to merge")
	}
	level := slices.Clone(aggregators)
	if depth > 1 {
		n := float64(len(level))
		scale := max(int(math.Ceil(math.Pow(n, 1/float64(depth)))), 2)
		for len(level) > scale+(len(level)+scale-1)/scale {
			next, err := mergeLevel(ctx, level, len(level)/scale)
			if err != nil {
				return nil, err
			}
			level = next
		}
	}
	return mergeLinear(level, 0, 1)
}

// mergeLevel merges level into numGroups aggregators;
// group j has every numGroups-th aggregator starting from j.
func mergeLevel(
	ctx context.Context, level []*Aggregator, numGroups int,
) ([]*Aggregator, error) {
	next := make([]*Aggregator, numGroups)
	g, gctx := errgroup.WithContext(ctx)
	for j := range next {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			agg, err := mergeLinear(level, j, numGroups)
			next[j] = agg
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

func mergeLinear(
	aggregators []*Aggregator, start, stride int,
) (*Aggregator, error) {
	result := aggregators[start]
	for i := start + stride; i < len(aggregators); i += stride {
		if _, err := result.Merge(aggregators[i]); err != nil {
			return nil, errors.Wrapf(err, "aggregator #%d", i)
		}
	}
	return result, nil
}
