package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.False(t, cfg.JSON)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.AddSource)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(" INFO "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("nonsense"))
}

func TestInitSetsDebug(t *testing.T) {
	captureLogs(t, slog.LevelDebug)
	assert.True(t, Debug)

	captureLogs(t, slog.LevelInfo)
	assert.False(t, Debug)
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t, slog.LevelWarn)

	Info("hidden")
	Warn("shown", KeyTaskID, "t1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"task_id":"t1"`)
}

func TestRunAndOpContext(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	ctx := WithOp(WithRun(context.Background()), "checkin")
	id := RunID(ctx)
	assert.Len(t, id, 8)
	assert.Equal(t, "checkin", Op(ctx))
	assert.Equal(t, "", RunID(context.Background()))
	assert.Equal(t, "", Op(nil))

	DebugContext(ctx, "tagged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, id, entry[KeyRunID])
	assert.Equal(t, "checkin", entry[KeyOperation])
}

func TestOtherRunsGetOtherIDs(t *testing.T) {
	a := RunID(WithRun(context.Background()))
	b := RunID(WithRun(context.Background()))
	assert.NotEqual(t, a, b)
}

func TestRecoverPanicRepanics(t *testing.T) {
	buf := captureLogs(t, slog.LevelError)

	assert.PanicsWithValue(t, "boom", func() {
		defer RecoverPanic("test-goroutine")
		panic("boom")
	})

	out := buf.String()
	assert.Contains(t, out, "CRASH")
	assert.Contains(t, out, "test-goroutine")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "stack")
}

func TestRecoverPanicNoPanic(t *testing.T) {
	buf := captureLogs(t, slog.LevelError)

	assert.NotPanics(t, func() {
		defer RecoverPanic("quiet")
	})
	assert.Empty(t, buf.String())
}
