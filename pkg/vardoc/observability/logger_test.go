package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(string) slog.Handler { return h }

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestLogEvaluate(t *testing.T) {
	t.Run("start logs path at debug", func(t *testing.T) {
		h := newTestHandler()
		LogEvaluateStart(slog.New(h), "a.b")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "a.b", record["path"])
	})

	t.Run("complete includes duration", func(t *testing.T) {
		h := newTestHandler()
		LogEvaluateComplete(slog.New(h), "a.b", 1.5)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, 1.5, record["duration_ms"])
	})

	t.Run("error logs at error level with cause", func(t *testing.T) {
		h := newTestHandler()
		LogEvaluateError(slog.New(h), "a.b", errors.New("kaboom"))

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, "kaboom", record["error"])
	})
}

func TestLogCacheHit(t *testing.T) {
	h := newTestHandler()
	LogCacheHit(slog.New(h), "a.b")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "a.b", record["path"])
}

func TestLogInvalidation(t *testing.T) {
	h := newTestHandler()
	LogInvalidation(slog.New(h), "a.b", 3)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "a.b", record["source"])
	assert.Equal(t, float64(3), record["dependents"]) // JSON decodes ints as float64
}

func TestLogFallback(t *testing.T) {
	h := newTestHandler()
	LogFallback(slog.New(h), "a.b", errors.New("kaboom"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "a.b", record["path"])
}

func TestNilLoggerIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		LogEvaluateStart(nil, "a.b")
		LogEvaluateComplete(nil, "a.b", 1)
		LogEvaluateError(nil, "a.b", errors.New("x"))
		LogCacheHit(nil, "a.b")
		LogInvalidation(nil, "a.b", 0)
		LogFallback(nil, "a.b", errors.New("x"))
	})
}
