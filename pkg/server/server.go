// Package server serves hinge loss evaluation over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/ziflex/lecho/v3"
	"k3l.io/go-hinge/pkg/dataset"
	"k3l.io/go-hinge/pkg/hinge"
	"k3l.io/go-hinge/pkg/sparse"
	"k3l.io/go-hinge/pkg/util"
)

// BaseURL is the default URL prefix of the API.
const BaseURL = "/hinge/v1"

// Server implements the hinge loss evaluation API.
type Server struct {
	Logger zerolog.Logger

	// NumWorkers bounds per-request concurrency; 0 means GOMAXPROCS.
	NumWorkers int
}

func NewServer(logger zerolog.Logger) *Server {
	return &Server{Logger: logger}
}

// NewEcho creates an echo instance logging through the given logger,
// with request IDs, CORS, and request logging.
func NewEcho(logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	eLogger := lecho.From(logger)
	e.Logger = eLogger
	e.Use(
		middleware.RequestID(),
		middleware.CORS(),
		lecho.Middleware(lecho.Config{Logger: eLogger, NestKey: "req"}),
	)
	e.HTTPErrorHandler = errorHandler(e)
	return e
}

// Register adds the API routes to the given group.
func (s *Server) Register(g *echo.Group) {
	g.POST("/evaluate", s.Evaluate)
}

// Evaluate handles an EvaluateRequest.
func (s *Server) Evaluate(c echo.Context) error {
	ctx := util.SetLoggerInContext(c.Request().Context(), s.Logger)
	logger := util.LoggerWithCaller(s.Logger)
	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err, "cannot parse request")
	}
	partitions, err := req.partitions()
	if err != nil {
		return badRequest(err, "invalid instances")
	}
	logger.Trace().
		Int("numFeatures", req.NumFeatures).
		Int("numInstances", len(req.Instances)).
		Int("numPartitions", len(partitions)).
		Msg("evaluating")
	var opts []hinge.EvaluateOpt
	if s.NumWorkers > 0 {
		opts = append(opts, hinge.WithNumWorkers(s.NumWorkers))
	}
	agg, err := hinge.Evaluate(ctx, req.NumFeatures, req.FitIntercept,
		sparse.Dense(req.Coefficients), partitions, opts...)
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case err != nil:
		return badRequest(err, "cannot evaluate")
	}
	loss, err := agg.Loss()
	if err != nil {
		return badRequest(err, "cannot compute loss")
	}
	gradient, err := agg.Gradient()
	if err != nil {
		return badRequest(err, "cannot compute gradient")
	}
	return c.JSON(http.StatusOK, EvaluateResponse{
		Loss:      loss,
		Gradient:  gradient,
		LossSum:   agg.LossSum(),
		WeightSum: agg.WeightSum(),
	})
}

func (req *EvaluateRequest) partitions() ([]hinge.Partition, error) {
	if req.NumFeatures <= 0 {
		return nil, errors.Errorf("numFeatures=%d must be positive",
			req.NumFeatures)
	}
	instances := make([]dataset.Instance, len(req.Instances))
	for i := range req.Instances {
		inst, err := req.Instances[i].toInstance(req.NumFeatures)
		if err != nil {
			return nil, errors.Wrapf(err, "instance #%d", i)
		}
		instances[i] = inst
	}
	numPartitions := max(req.Partitions, 1)
	partitions := make([]hinge.Partition, 0, numPartitions)
	for _, part := range dataset.Partition(instances, numPartitions) {
		if req.BlockRows <= 0 || len(part) == 0 {
			partitions = append(partitions, hinge.Partition{Instances: part})
			continue
		}
		blocks, err := dataset.Blockify(part, req.NumFeatures, req.BlockRows)
		if err != nil {
			return nil, err
		}
		partitions = append(partitions, hinge.Partition{Blocks: blocks})
	}
	return partitions, nil
}
