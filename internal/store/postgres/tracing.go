package postgres

import (
	"context"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/donation-coordinator/internal/otel"
)

// TracerName is the name used for the Postgres store tracer
const TracerName = "github.com/stacklok/donation-coordinator/store/postgres"

// startSpan starts a client span tagged with db.system=postgresql
func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.StartSpan(ctx, s.tracer, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(semconv.DBSystemPostgreSQL),
	)
}

func endSpan(span trace.Span, err error) {
	otel.RecordError(span, err)
	span.End()
}
