package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetricsImplementsInterface(t *testing.T) {
	var _ MetricsRecorder = NoopMetrics{}
}

func TestNoopMetricsDoesNotPanic(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordEvaluation(ctx, "a.b", 10*time.Millisecond, nil)
		m.RecordEvaluation(ctx, "", 0, errors.New("x"))
		m.RecordCacheHit(ctx, "a.b")
		m.RecordCacheMiss(ctx, "")
		m.RecordInvalidation(ctx, "a.b", 3)
	})
}

func TestNoopSpanManagerImplementsInterface(t *testing.T) {
	var _ SpanManager = NoopSpanManager{}
}

func TestNoopSpanManagerDoesNotPanic(t *testing.T) {
	m := NoopSpanManager{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		ctx, span := m.StartReadSpan(ctx, "a.b")
		_, evalSpan := m.StartEvalSpan(ctx, "a.b")
		m.AddSpanEvent(ctx, "event", attribute.String("k", "v"))
		m.EndSpanWithError(evalSpan, errors.New("x"))
		m.EndSpanWithError(span, nil)
	})
}

func TestNoopSpanManagerPreservesContext(t *testing.T) {
	m := NoopSpanManager{}
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	got, _ := m.StartReadSpan(ctx, "a")
	assert.Equal(t, "v", got.Value(key{}))
}
