// Package scoring delegates match decisions to the remote prediction service.
//
// A scoring call submits a feature vector, receives a job token and then polls
// the job until it reports a terminal event or the attempt budget runs out.
// The call blocks for at most MaxAttempts x PollInterval (plus request time)
// and stops as soon as its context is cancelled.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/donation-coordinator/internal/httpclient"
	"github.com/stacklok/donation-coordinator/internal/otel"
	"github.com/stacklok/donation-coordinator/internal/telemetry"
)

const (
	// DefaultPollInterval is the wait between two polls of a job
	DefaultPollInterval = time.Second
	// DefaultMaxAttempts is the number of polls before a job is declared indeterminate
	DefaultMaxAttempts = 10
	// DefaultSuccessMarker is the text the model emits for a positive match
	DefaultSuccessMarker = "✅ Match Found"
	// DefaultEndpoint is the prediction function exposed by the service
	DefaultEndpoint = "predict"

	// TracerName is the name used for the scoring tracer
	TracerName = "github.com/stacklok/donation-coordinator/scoring"
)

var (
	// ErrSubmission is returned when a scoring job could not be submitted
	ErrSubmission = errors.New("scoring job submission failed")
	// ErrMissingJobToken is returned when the service accepted a job without returning its token
	ErrMissingJobToken = errors.New("scoring service returned no job token")

	errJobPending = errors.New("job has not reached a terminal event")
)

//go:generate mockgen -destination=mocks/mock_scorer.go -package=mocks -source=client.go Scorer

// Scorer produces a match verdict for one donation/home pair
type Scorer interface {
	Score(ctx context.Context, features Features) (Result, error)
}

// Features is the fixed-size feature vector understood by the model
type Features struct {
	Quantity   float64
	Capacity   float64
	DistanceKM float64
}

// vector returns the features in the order the model expects
func (f Features) vector() []float64 {
	return []float64{f.Quantity, f.Capacity, f.DistanceKM}
}

// Result is the outcome of a scoring call
type Result struct {
	Verdict Verdict
	// JobID is the token returned by the service, empty if submission failed
	JobID string
	// Attempts is the number of polls performed
	Attempts int
	// Detail carries the model answer or the reason no verdict was reached
	Detail string
}

type submitRequest struct {
	Data []float64 `json:"data"`
}

type submitResponse struct {
	EventID string `json:"event_id"`
}

// Client is the HTTP implementation of Scorer. It is safe for concurrent use.
type Client struct {
	http          httpclient.Client
	submitURL     string
	pollInterval  time.Duration
	maxAttempts   int
	successMarker string
	tracer        trace.Tracer
	metrics       *telemetry.ScoringMetrics
}

var _ Scorer = (*Client)(nil)

// New creates a scoring client. WithBaseURL is required.
func New(opts ...Option) (*Client, error) {
	o := &options{
		endpoint:      DefaultEndpoint,
		pollInterval:  DefaultPollInterval,
		maxAttempts:   DefaultMaxAttempts,
		successMarker: DefaultSuccessMarker,
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	if o.baseURL == "" {
		return nil, fmt.Errorf("scoring base URL is required")
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.NewDefaultClient(httpclient.DefaultTimeout)
	}

	return &Client{
		http:          o.httpClient,
		submitURL:     strings.TrimRight(o.baseURL, "/") + "/call/" + o.endpoint,
		pollInterval:  o.pollInterval,
		maxAttempts:   o.maxAttempts,
		successMarker: o.successMarker,
		tracer:        o.tracer,
		metrics:       o.metrics,
	}, nil
}

// Score submits the features and polls the resulting job for a verdict.
// A submission failure is returned as an error wrapping ErrSubmission together
// with an Indeterminate result. Poll failures never produce an error: they are
// retried until the attempt budget is spent, after which the result is Indeterminate.
// The only other error is the context's own.
func (c *Client) Score(ctx context.Context, features Features) (Result, error) {
	ctx, span := otel.StartSpan(ctx, c.tracer, "scoring.Score",
		trace.WithAttributes(
			attribute.Float64("scoring.quantity", features.Quantity),
			attribute.Float64("scoring.capacity", features.Capacity),
			attribute.Float64("scoring.distance_km", features.DistanceKM),
		),
	)
	defer span.End()

	start := time.Now()

	jobID, err := c.submit(ctx, features)
	if err != nil {
		otel.RecordError(span, err)
		c.metrics.RecordScore(ctx, Indeterminate.String(), 0, time.Since(start))
		return Result{Verdict: Indeterminate, Detail: err.Error()}, err
	}
	span.SetAttributes(otel.AttrScoringJobID.String(jobID))

	result, err := c.poll(ctx, jobID)
	result.JobID = jobID
	if err != nil {
		otel.RecordError(span, err)
	}

	span.SetAttributes(
		otel.AttrScoringVerdict.String(result.Verdict.String()),
		otel.AttrScoringAttempts.Int(result.Attempts),
	)
	c.metrics.RecordScore(ctx, result.Verdict.String(), result.Attempts, time.Since(start))

	return result, err
}

func (c *Client) submit(ctx context.Context, features Features) (string, error) {
	body, err := c.http.PostJSON(ctx, c.submitURL, submitRequest{Data: features.vector()})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmission, err)
	}

	var resp submitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: invalid response: %w", ErrSubmission, err)
	}
	if resp.EventID == "" {
		return "", fmt.Errorf("%w: %w", ErrSubmission, ErrMissingJobToken)
	}

	return resp.EventID, nil
}

func (c *Client) poll(ctx context.Context, jobID string) (Result, error) {
	pollURL := c.submitURL + "/" + url.PathEscape(jobID)
	attempts := 0

	// A freshly submitted job is never ready; wait one interval before the first poll.
	timer := time.NewTimer(c.pollInterval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return Result{Verdict: Indeterminate}, ctx.Err()
	case <-timer.C:
	}

	operation := func() (Result, error) {
		attempts++

		body, err := c.http.Get(ctx, pollURL)
		if err != nil {
			return Result{}, err
		}

		f, err := parseFrame(body)
		if err != nil {
			return Result{}, err
		}

		switch f.Event {
		case EventComplete:
			if f.Data == nil {
				return Result{}, errMalformedFrame
			}
			if containsMarker(f.Data, c.successMarker) {
				return Result{Verdict: Positive, Detail: describe(f.Data)}, nil
			}
			return Result{Verdict: Negative, Detail: describe(f.Data)}, nil
		case EventError:
			slog.WarnContext(ctx, "Scoring job reported an error",
				"job_id", jobID,
				"detail", describe(f.Data))
			return Result{Verdict: Negative, Detail: "scoring job error: " + describe(f.Data)}, nil
		default:
			return Result{}, fmt.Errorf("%w: event %q", errJobPending, f.Event)
		}
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.pollInterval)),
		backoff.WithMaxTries(uint(c.maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.DebugContext(ctx, "Scoring job not ready",
				"job_id", jobID,
				"attempt", attempts,
				"reason", err,
				"next_poll", next)
		}),
	)
	result.Attempts = attempts

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{Verdict: Indeterminate, Attempts: attempts}, ctxErr
		}
		slog.WarnContext(ctx, "Scoring job did not reach a terminal event",
			"job_id", jobID,
			"attempts", attempts,
			"last_error", err)
		return Result{
			Verdict:  Indeterminate,
			Attempts: attempts,
			Detail:   fmt.Sprintf("no terminal event after %d polls: %v", attempts, err),
		}, nil
	}

	return result, nil
}

func describe(data any) string {
	if data == nil {
		return ""
	}
	if s, ok := data.(string); ok {
		return s
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprint(data)
	}
	return string(b)
}
