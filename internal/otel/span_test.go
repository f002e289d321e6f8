package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecorder(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp.Tracer("otel-test")
}

func TestStartSpan(t *testing.T) {
	t.Parallel()

	t.Run("nil tracer returns no-op span", func(t *testing.T) {
		t.Parallel()
		ctx, span := StartSpan(context.Background(), nil, "donation.Approve")
		require.NotNil(t, ctx)
		assert.False(t, span.SpanContext().IsValid())
		assert.NotPanics(t, func() { span.End() })
	})

	t.Run("records name and attributes", func(t *testing.T) {
		t.Parallel()
		exporter, tracer := newRecorder(t)

		_, span := StartSpan(context.Background(), tracer, "matching.RunSession",
			trace.WithAttributes(
				AttrDonationID.String("d-1"),
				AttrCandidateCount.Int(3),
			),
		)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "matching.RunSession", spans[0].Name)

		attrs := map[string]string{}
		for _, kv := range spans[0].Attributes {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, "d-1", attrs["donation.id"])
		assert.Equal(t, "3", attrs["matching.candidates"])
	})
}

func TestRecordError(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { RecordError(nil, errors.New("boom")) })
	assert.NotPanics(t, func() { RecordError(nil, nil) })

	t.Run("nil error leaves status unset", func(t *testing.T) {
		t.Parallel()
		exporter, tracer := newRecorder(t)
		_, span := tracer.Start(context.Background(), "noop")
		RecordError(span, nil)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Unset, spans[0].Status.Code)
		assert.Empty(t, spans[0].Events)
	})

	t.Run("error sets generic status and exception event", func(t *testing.T) {
		t.Parallel()
		exporter, tracer := newRecorder(t)
		_, span := tracer.Start(context.Background(), "store.Update")
		RecordError(span, errors.New("connection refused to 10.0.0.1"))
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "operation failed", spans[0].Status.Description)
		require.NotEmpty(t, spans[0].Events)
		assert.Equal(t, "exception", spans[0].Events[0].Name)
	})
}
