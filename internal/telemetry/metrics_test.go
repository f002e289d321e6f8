package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualProvider(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", agg)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNilMetricsAreNoOps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var (
		s *ScoringMetrics
		m *MatchingMetrics
		d *DonationMetrics
		h *HTTPMetrics
	)
	assert.NotPanics(t, func() {
		s.RecordScore(ctx, "positive", 3, time.Second)
		m.RecordSession(ctx, time.Second, map[string]int{"positive": 1})
		m.RecordConfirmation(ctx, true)
		d.RecordTransition(ctx, "pending", "matched")
	})
	assert.Nil(t, h.Middleware(nil))

	for _, ctor := range []func() (any, error){
		func() (any, error) { return NewScoringMetrics(nil) },
		func() (any, error) { return NewMatchingMetrics(nil) },
		func() (any, error) { return NewDonationMetrics(nil) },
	} {
		_, err := ctor()
		require.NoError(t, err)
	}
}

func TestScoringMetrics_RecordScore(t *testing.T) {
	t.Parallel()

	reader, mp := newManualProvider(t)
	metrics, err := NewScoringMetrics(mp)
	require.NoError(t, err)

	metrics.RecordScore(context.Background(), "positive", 2, 2*time.Second)
	metrics.RecordScore(context.Background(), "indeterminate", 10, 10*time.Second)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data["donation_scoring_verdicts_total"]))

	hist, ok := data["donation_scoring_poll_attempts"].(metricdata.Histogram[int64])
	require.True(t, ok)
	var polls int64
	for _, dp := range hist.DataPoints {
		polls += dp.Sum
	}
	assert.Equal(t, int64(12), polls)
}

func TestMatchingMetrics(t *testing.T) {
	t.Parallel()

	reader, mp := newManualProvider(t)
	metrics, err := NewMatchingMetrics(mp)
	require.NoError(t, err)

	metrics.RecordSession(context.Background(), 3*time.Second, map[string]int{
		"positive":    2,
		"negative":    1,
		"unscoreable": 1,
	})
	metrics.RecordConfirmation(context.Background(), true)
	metrics.RecordConfirmation(context.Background(), false)

	data := collect(t, reader)
	assert.Equal(t, int64(4), sumOf(t, data["donation_matching_candidates_total"]))
	assert.Equal(t, int64(2), sumOf(t, data["donation_matching_confirmations_total"]))
	assert.Contains(t, data, "donation_matching_session_duration_seconds")
}

func TestDonationMetrics_RecordTransition(t *testing.T) {
	t.Parallel()

	reader, mp := newManualProvider(t)
	metrics, err := NewDonationMetrics(mp)
	require.NoError(t, err)

	metrics.RecordTransition(context.Background(), "matched", "awaiting_recipient_approval")
	metrics.RecordTransition(context.Background(), "awaiting_recipient_approval", "completed")

	assert.Equal(t, int64(2), sumOf(t, collect(t, reader)["donation_transitions_total"]))
}
