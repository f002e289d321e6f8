package matching

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/donation-coordinator/internal/telemetry"
)

type options struct {
	maxConcurrency int
	now            func() time.Time
	tracer         trace.Tracer
	metrics        *telemetry.MatchingMetrics
}

// Option configures an Orchestrator
type Option func(*options) error

// WithMaxConcurrency bounds how many homes are scored at once
func WithMaxConcurrency(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("max concurrency must be positive, got %d", n)
		}
		o.maxConcurrency = n
		return nil
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer.
// If not set, tracing will be disabled (no-op).
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}

// WithMetrics sets the matching instruments. Nil disables metrics.
func WithMetrics(m *telemetry.MatchingMetrics) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}
