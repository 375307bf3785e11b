package logger_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordkit/recordkit/logger"
)

func bufferedLogger(level logger.LogLevel, config ...logger.Config) (logger.Interface, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := logger.Config{LogLevel: level}
	if len(config) > 0 {
		cfg = config[0]
		cfg.LogLevel = level
	}
	return logger.NewZerologLogger(zerolog.New(&buf), cfg), &buf
}

func TestLogLevelFiltering(t *testing.T) {
	ctx := context.Background()

	l, buf := bufferedLogger(logger.Warn)
	l.Info(ctx, "loaded %d rows", 3)
	assert.Empty(t, buf.String())

	l.Warn(ctx, "cascade finished partial")
	assert.Contains(t, buf.String(), "cascade finished partial")

	buf.Reset()
	silent := l.LogMode(logger.Silent)
	silent.Error(ctx, "nothing should appear")
	assert.Empty(t, buf.String())
}

func TestLogModeReturnsCopy(t *testing.T) {
	l, buf := bufferedLogger(logger.Error)
	quiet := l.LogMode(logger.Silent)

	l.Error(context.Background(), "still audible")
	assert.Contains(t, buf.String(), "still audible")

	buf.Reset()
	quiet.Error(context.Background(), "muted")
	assert.Empty(t, buf.String())
}

func TestTraceLogsAtInfo(t *testing.T) {
	l, buf := bufferedLogger(logger.Info)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM `customers`", 2
	}, nil)

	out := buf.String()
	assert.Contains(t, out, "SELECT * FROM `customers`")
	assert.Contains(t, out, `"rows":2`)
}

func TestTraceLogsErrors(t *testing.T) {
	l, buf := bufferedLogger(logger.Error)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO `customers`", 0
	}, errors.New("constraint violation"))

	out := buf.String()
	assert.Contains(t, out, "constraint violation")
	assert.Contains(t, out, "INSERT INTO `customers`")
}

func TestTraceIgnoresRecordNotFound(t *testing.T) {
	l, buf := bufferedLogger(logger.Error, logger.Config{IgnoreRecordNotFoundError: true})

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM `customers`", 0
	}, logger.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestTraceFlagsSlowQueries(t *testing.T) {
	l, buf := bufferedLogger(logger.Warn, logger.Config{SlowThreshold: time.Millisecond})

	begin := time.Now().Add(-50 * time.Millisecond)
	l.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM `invoices`", 100
	}, nil)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "slow_threshold")
	assert.True(t, strings.Contains(out, `"level":"warn"`))
}

func TestZerologLevelMapping(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, logger.ZerologLevel(logger.Silent))
	assert.Equal(t, zerolog.ErrorLevel, logger.ZerologLevel(logger.Error))
	assert.Equal(t, zerolog.WarnLevel, logger.ZerologLevel(logger.Warn))
	assert.Equal(t, zerolog.InfoLevel, logger.ZerologLevel(logger.Info))
}
