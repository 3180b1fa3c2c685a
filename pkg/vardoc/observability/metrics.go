package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records a directive evaluation with its duration
	// and error status.
	RecordEvaluation(ctx context.Context, path string, duration time.Duration, err error)

	// RecordCacheHit records a read served from the materialized cache.
	RecordCacheHit(ctx context.Context, path string)

	// RecordCacheMiss records a read that required evaluation.
	RecordCacheMiss(ctx context.Context, path string)

	// RecordInvalidation records an invalidation and its cascade size.
	RecordInvalidation(ctx context.Context, source string, dependents int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations   metric.Int64Counter
	evalLatency   metric.Float64Histogram
	evalErrors    metric.Int64Counter
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	invalidations metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("vardoc")

	evaluations, err := meter.Int64Counter("vardoc.eval.count",
		metric.WithDescription("Number of directive evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("vardoc.eval.latency_ms",
		metric.WithDescription("Directive evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("vardoc.eval.errors",
		metric.WithDescription("Number of failed directive evaluations"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter("vardoc.cache.hits",
		metric.WithDescription("Reads served from the materialized cache"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter("vardoc.cache.misses",
		metric.WithDescription("Reads that required evaluation"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter("vardoc.invalidations",
		metric.WithDescription("Cache invalidations, including cascades"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:   evaluations,
		evalLatency:   evalLatency,
		evalErrors:    evalErrors,
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
		invalidations: invalidations,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records a directive evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, path string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("path", path),
	}

	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.evalLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.evalErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordCacheHit records a cache hit.
func (m *otelMetrics) RecordCacheHit(ctx context.Context, path string) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
}

// RecordCacheMiss records a cache miss.
func (m *otelMetrics) RecordCacheMiss(ctx context.Context, path string) {
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
}

// RecordInvalidation records an invalidation cascade.
func (m *otelMetrics) RecordInvalidation(ctx context.Context, source string, dependents int) {
	m.invalidations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.Int("dependents", dependents),
	))
}
