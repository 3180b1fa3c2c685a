package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the engine tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("vardoc")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartReadSpan starts a span for a top-level read.
	// Returns the context with span and the span itself.
	StartReadSpan(ctx context.Context, path string) (context.Context, trace.Span)

	// StartEvalSpan starts a span for a directive evaluation.
	// The eval span should be a child of the read span.
	StartEvalSpan(ctx context.Context, path string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartReadSpan starts a span for a top-level read.
func (m *otelSpanManager) StartReadSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "vardoc.get",
		trace.WithAttributes(
			attribute.String("path", path),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartEvalSpan starts a span for a directive evaluation.
func (m *otelSpanManager) StartEvalSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "vardoc.eval."+path,
		trace.WithAttributes(
			attribute.String("path", path),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
