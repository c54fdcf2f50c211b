package util

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// TimeLogger logs lap times of a multi-stage computation.
type TimeLogger struct {
	Timer    func() time.Time
	Logger   zerolog.Logger
	LogStart time.Time
	LapStart time.Time
}

func NewTimeLogger(timer func() time.Time, logger zerolog.Logger) *TimeLogger {
	now := timer()
	logger.Trace().Time("now", now).Msg("TimeLogger started")
	return &TimeLogger{
		Timer:    timer,
		Logger:   logger,
		LogStart: now,
		LapStart: now,
	}
}

func NewWallTimeLogger(logger zerolog.Logger) *TimeLogger {
	return NewTimeLogger(time.Now, logger)
}

// Log finishes the current lap, logs it under the given name,
// and returns its duration.
func (p *TimeLogger) Log(name string) time.Duration {
	now := p.Timer()
	lapTime := now.Sub(p.LapStart)
	p.Logger.Trace().
		Str("lap", name).
		Dur("lapTime", lapTime).
		Dur("cumulative", now.Sub(p.LogStart)).
		Msg("finished lap")
	p.LapStart = now
	return lapTime
}

// LoggerWithCallerAtDepth recovers the caller at the given stack depth
// and adds it to the given logger under the "func", "file", and "line" keys.
// depth is 0 for the caller of LoggerWithCallerAtDepth.
// It returns the logger unmodified if the given stack frame doesn't exist.
func LoggerWithCallerAtDepth(depth int, logger zerolog.Logger) zerolog.Logger {
	pc, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		return logger
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return logger
	}
	return logger.With().
		Str("file", file).
		Int("line", line).
		Str("func", fn.Name()).
		Logger()
}

// LoggerWithCaller recovers the calling function of LoggerWithCaller
// and adds it to the given logger under the "func", "file", and "line" keys.
func LoggerWithCaller(logger zerolog.Logger) zerolog.Logger {
	return LoggerWithCallerAtDepth(1, logger)
}

// SetLoggerInContext returns a child context carrying the given logger,
// retrievable with zerolog.Ctx.
func SetLoggerInContext(
	ctx context.Context, logger zerolog.Logger,
) context.Context {
	return logger.WithContext(ctx)
}
