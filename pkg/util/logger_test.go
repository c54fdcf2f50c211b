package util

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimeLogger(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timer := func() time.Time { return now }
	var buf bytes.Buffer
	tm := NewTimeLogger(timer, zerolog.New(&buf).Level(zerolog.TraceLevel))
	now = now.Add(2 * time.Second)
	assert.Equal(t, 2*time.Second, tm.Log("first"))
	now = now.Add(time.Second)
	assert.Equal(t, time.Second, tm.Log("second"))
	assert.Equal(t, 3*time.Second, tm.LapStart.Sub(tm.LogStart))
	assert.Contains(t, buf.String(), `"lap":"second"`)
}

func TestLoggerWithCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggerWithCaller(zerolog.New(&buf))
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "TestLoggerWithCaller")
	assert.Contains(t, buf.String(), "logger_test.go")
}

func TestSetLoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := SetLoggerInContext(context.Background(), zerolog.New(&buf))
	zerolog.Ctx(ctx).Info().Msg("from context")
	assert.True(t, strings.Contains(buf.String(), "from context"))
}
