package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/kukudrill/internal/logger"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
}

func newTestLogger(buf *bytes.Buffer, level logger.Level) *logger.Logger {
	return logger.New(
		logger.WithOutput(buf),
		logger.WithLevel(level),
		logger.WithColors(false),
		logger.WithClock(fixedClock),
	)
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.WARN)

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown %d", 1)
	log.Error("shown %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WARN  ")
	assert.Contains(t, lines[0], "shown 1")
	assert.Contains(t, lines[1], "ERROR")
}

func TestLogger_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.DEBUG).WithPrefix("drill")

	log.Info("session started")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "2024-05-01 09:30:00.000 INFO  [drill] [logger_test.go:"))
	assert.True(t, strings.HasSuffix(line, "session started\n"))
}

func TestLogger_FieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.DEBUG).
		WithField("user_id", "u-1").
		WithFields(map[string]any{"attempts": 3, "session_id": "s-9"})

	log.Info("done")

	assert.True(t, strings.HasSuffix(buf.String(), "done attempts=3 session_id=s-9 user_id=u-1\n"))
}

func TestLogger_ChildDoesNotChangeParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf, logger.DEBUG)
	_ = parent.WithField("k", "v").WithPrefix("child")

	parent.Info("plain")

	assert.NotContains(t, buf.String(), "k=v")
	assert.NotContains(t, buf.String(), "[child]")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("warning"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel(" ERROR "))
	assert.Equal(t, logger.INFO, logger.ParseLevel("verbose"))
	assert.Equal(t, "UNKNOWN", logger.Level(9).String())
}

func TestContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.DEBUG).WithField("request_id", "r-1")

	ctx := logger.NewContext(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
