package hinge

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCtxLogger(t *testing.T) {
	saved := Logger()
	defer SetLogger(saved)
	var pkgBuf, ctxBuf bytes.Buffer
	SetLogger(zerolog.New(&pkgBuf))

	l := ctxLogger(context.Background())
	l.Info().Msg("from package")
	assert.Contains(t, pkgBuf.String(), "from package")

	ctx := zerolog.New(&ctxBuf).WithContext(context.Background())
	l = ctxLogger(ctx)
	l.Info().Msg("from context")
	assert.Contains(t, ctxBuf.String(), "from context")
	assert.NotContains(t, pkgBuf.String(), "from context")
}
