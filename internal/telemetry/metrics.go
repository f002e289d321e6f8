package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// ScoringMetricsMeterName is the meter name for scoring calls
	ScoringMetricsMeterName = "github.com/stacklok/donation-coordinator/scoring"

	// MatchingMetricsMeterName is the meter name for matching sessions
	MatchingMetricsMeterName = "github.com/stacklok/donation-coordinator/matching"

	// DonationMetricsMeterName is the meter name for lifecycle transitions
	DonationMetricsMeterName = "github.com/stacklok/donation-coordinator/donation"
)

// ScoringMetrics holds the instruments for remote scoring calls.
// A nil *ScoringMetrics records nothing.
type ScoringMetrics struct {
	verdicts metric.Int64Counter
	attempts metric.Int64Histogram
	duration metric.Float64Histogram
}

// NewScoringMetrics creates scoring instruments. A nil provider yields nil.
func NewScoringMetrics(provider metric.MeterProvider) (*ScoringMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(ScoringMetricsMeterName)

	verdicts, err := meter.Int64Counter(
		"donation_scoring_verdicts_total",
		metric.WithDescription("Scoring calls by verdict"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	attempts, err := meter.Int64Histogram(
		"donation_scoring_poll_attempts",
		metric.WithDescription("Polls performed per scoring call"),
		metric.WithUnit("{poll}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 8, 10, 20),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"donation_scoring_duration_seconds",
		metric.WithDescription("Wall time of scoring calls in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 15, 30),
	)
	if err != nil {
		return nil, err
	}

	return &ScoringMetrics{verdicts: verdicts, attempts: attempts, duration: duration}, nil
}

// RecordScore records one finished scoring call
func (m *ScoringMetrics) RecordScore(ctx context.Context, verdict string, attempts int, d time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("verdict", verdict))
	m.verdicts.Add(ctx, 1, attrs)
	m.attempts.Record(ctx, int64(attempts), attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// MatchingMetrics holds the instruments for matching sessions.
// A nil *MatchingMetrics records nothing.
type MatchingMetrics struct {
	sessionDuration metric.Float64Histogram
	candidates      metric.Int64Counter
	confirmations   metric.Int64Counter
}

// NewMatchingMetrics creates matching instruments. A nil provider yields nil.
func NewMatchingMetrics(provider metric.MeterProvider) (*MatchingMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(MatchingMetricsMeterName)

	sessionDuration, err := meter.Float64Histogram(
		"donation_matching_session_duration_seconds",
		metric.WithDescription("Duration of matching sessions in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, err
	}

	candidates, err := meter.Int64Counter(
		"donation_matching_candidates_total",
		metric.WithDescription("Candidate homes evaluated, by outcome"),
		metric.WithUnit("{home}"),
	)
	if err != nil {
		return nil, err
	}

	confirmations, err := meter.Int64Counter(
		"donation_matching_confirmations_total",
		metric.WithDescription("Match confirmations, by result"),
		metric.WithUnit("{confirmation}"),
	)
	if err != nil {
		return nil, err
	}

	return &MatchingMetrics{
		sessionDuration: sessionDuration,
		candidates:      candidates,
		confirmations:   confirmations,
	}, nil
}

// RecordSession records a finished session and the count of candidates per outcome
func (m *MatchingMetrics) RecordSession(ctx context.Context, d time.Duration, outcomes map[string]int) {
	if m == nil {
		return
	}

	m.sessionDuration.Record(ctx, d.Seconds())
	for outcome, n := range outcomes {
		m.candidates.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// RecordConfirmation records a confirm attempt
func (m *MatchingMetrics) RecordConfirmation(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.confirmations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// DonationMetrics counts lifecycle transitions. A nil *DonationMetrics records nothing.
type DonationMetrics struct {
	transitions metric.Int64Counter
}

// NewDonationMetrics creates lifecycle instruments. A nil provider yields nil.
func NewDonationMetrics(provider metric.MeterProvider) (*DonationMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	transitions, err := provider.Meter(DonationMetricsMeterName).Int64Counter(
		"donation_transitions_total",
		metric.WithDescription("Donation status transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &DonationMetrics{transitions: transitions}, nil
}

// RecordTransition records a committed status change
func (m *DonationMetrics) RecordTransition(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
