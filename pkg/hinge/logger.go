package hinge

import (
	"context"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.NewConsoleWriter()).Level(zerolog.InfoLevel)

func Logger() zerolog.Logger             { return logger }
func SetLogger(newLogger zerolog.Logger) { logger = newLogger }

// ctxLogger returns the logger carried by ctx, or the package logger.
func ctxLogger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return logger
}
