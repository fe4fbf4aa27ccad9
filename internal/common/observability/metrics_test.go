package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestObservability_Records(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	o, err := newWithMeter(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	o.RecordSubmission(ctx, "succeeded")
	o.RecordSubmission(ctx, "succeeded")
	o.RecordSubmission(ctx, "failed")
	o.RecordPredictionDuration(ctx, 120*time.Millisecond, "200")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	sum, ok := byName["submissions.processed"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, sum.DataPoints, 2)

	hist, ok := byName["prediction.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestObservability_NoopIsSafe(t *testing.T) {
	o := NewNoop()
	o.RecordSubmission(context.Background(), "failed")
	o.RecordPredictionDuration(context.Background(), time.Second, "error")
	assert.NoError(t, o.Shutdown(context.Background()))
}

func TestNewTracing_WithoutEndpoint(t *testing.T) {
	tr, err := NewTracing("career-advisor", "test", "")
	require.NoError(t, err)
	assert.NoError(t, tr.Shutdown(context.Background()))
}
