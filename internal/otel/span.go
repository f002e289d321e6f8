// Package otel provides OpenTelemetry span helpers shared by the coordinator packages.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Attribute keys shared by every span the coordinator emits.
const (
	AttrDonationID       = attribute.Key("donation.id")
	AttrDonationStatus   = attribute.Key("donation.status")
	AttrDonationCategory = attribute.Key("donation.category")
	AttrHomeID           = attribute.Key("home.id")
	AttrDonorID          = attribute.Key("donor.id")
	AttrActorRole        = attribute.Key("actor.role")
	AttrSessionID        = attribute.Key("matching.session_id")
	AttrCandidateCount   = attribute.Key("matching.candidates")
	AttrResultCount      = attribute.Key("result.count")
	AttrScoringJobID     = attribute.Key("scoring.job_id")
	AttrScoringVerdict   = attribute.Key("scoring.verdict")
	AttrScoringAttempts  = attribute.Key("scoring.attempts")
)

// StartSpan starts a span on tracer. A nil tracer yields a no-op span and
// leaves ctx untouched, so callers never need to check whether tracing is on.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, noop.Span{}
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span as failed.
// The status description stays generic so query text and addresses only
// appear in the recorded exception event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
