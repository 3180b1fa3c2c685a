package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a manual-reader meter provider and returns
// the reader plus a cleanup function.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}
	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func counterValue(t *testing.T, m *metricdata.Metrics) int64 {
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordEvaluation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordEvaluation(ctx, "a.b", 5*time.Millisecond, nil)
	m.RecordEvaluation(ctx, "a.b", 2*time.Millisecond, errors.New("kaboom"))

	rm := collectMetrics(t, reader)

	count := findMetric(rm, "vardoc.eval.count")
	require.NotNil(t, count)
	assert.Equal(t, int64(2), counterValue(t, count))

	errCount := findMetric(rm, "vardoc.eval.errors")
	require.NotNil(t, errCount)
	assert.Equal(t, int64(1), counterValue(t, errCount))

	latency := findMetric(rm, "vardoc.eval.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var n uint64
	for _, dp := range hist.DataPoints {
		n += dp.Count
	}
	assert.Equal(t, uint64(2), n)
}

func TestRecordCacheCounters(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordCacheHit(ctx, "a")
	m.RecordCacheHit(ctx, "a")
	m.RecordCacheMiss(ctx, "b")

	rm := collectMetrics(t, reader)

	hits := findMetric(rm, "vardoc.cache.hits")
	require.NotNil(t, hits)
	assert.Equal(t, int64(2), counterValue(t, hits))

	misses := findMetric(rm, "vardoc.cache.misses")
	require.NotNil(t, misses)
	assert.Equal(t, int64(1), counterValue(t, misses))
}

func TestRecordInvalidation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordInvalidation(context.Background(), "a.b", 4)

	rm := collectMetrics(t, reader)
	inv := findMetric(rm, "vardoc.invalidations")
	require.NotNil(t, inv)
	assert.Equal(t, int64(1), counterValue(t, inv))
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
}
