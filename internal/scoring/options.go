package scoring

import (
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/donation-coordinator/internal/httpclient"
	"github.com/stacklok/donation-coordinator/internal/telemetry"
)

type options struct {
	baseURL       string
	endpoint      string
	httpClient    httpclient.Client
	pollInterval  time.Duration
	maxAttempts   int
	successMarker string
	tracer        trace.Tracer
	metrics       *telemetry.ScoringMetrics
}

// Option is a functional option for configuring the scoring client
type Option func(*options) error

// WithBaseURL sets the root URL of the prediction service, e.g.
// "https://example.hf.space/gradio_api"
func WithBaseURL(baseURL string) Option {
	return func(o *options) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid scoring base URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("scoring base URL must be http or https, got %q", baseURL)
		}
		o.baseURL = baseURL
		return nil
	}
}

// WithEndpoint sets the prediction function name, "predict" by default
func WithEndpoint(endpoint string) Option {
	return func(o *options) error {
		if endpoint == "" {
			return fmt.Errorf("scoring endpoint cannot be empty")
		}
		o.endpoint = endpoint
		return nil
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *options) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.httpClient = c
		return nil
	}
}

// WithPollInterval sets the wait between polls
func WithPollInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("poll interval must be positive, got %s", d)
		}
		o.pollInterval = d
		return nil
	}
}

// WithMaxAttempts sets the poll budget
func WithMaxAttempts(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("max attempts must be positive, got %d", n)
		}
		o.maxAttempts = n
		return nil
	}
}

// WithSuccessMarker sets the text that identifies a positive answer
func WithSuccessMarker(marker string) Option {
	return func(o *options) error {
		if marker == "" {
			return fmt.Errorf("success marker cannot be empty")
		}
		o.successMarker = marker
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

// WithMetrics sets the scoring metrics recorder
func WithMetrics(m *telemetry.ScoringMetrics) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}
