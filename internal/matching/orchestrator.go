package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/geo"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/otel"
	"github.com/stacklok/donation-coordinator/internal/scoring"
	"github.com/stacklok/donation-coordinator/internal/telemetry"
)

const (
	// DefaultMaxConcurrency bounds the number of homes scored at once
	DefaultMaxConcurrency = 4

	// TracerName is the name used for the matching tracer
	TracerName = "github.com/stacklok/donation-coordinator/matching"
)

// Repository is the storage the orchestrator reads and writes
type Repository interface {
	GetDonation(ctx context.Context, id uuid.UUID) (*donation.Donation, error)
	UpdateDonation(ctx context.Context, d *donation.Donation) error
	GetDonor(ctx context.Context, id uuid.UUID) (*donation.Donor, error)
	GetHome(ctx context.Context, id uuid.UUID) (*donation.Home, error)
	ListHomes(ctx context.Context, status donation.AccountStatus) ([]*donation.Home, error)
}

// Notifier fans a committed transition out to the affected actors
type Notifier interface {
	Dispatch(ctx context.Context, event donation.TransitionEvent) ([]notify.Notification, error)
}

// Confirmation is the outcome of a confirmed match
type Confirmation struct {
	Donation      *donation.Donation       `json:"donation"`
	Notifications []notify.Notification    `json:"notifications"`
	Event         donation.TransitionEvent `json:"-"`
}

// Orchestrator runs matching sessions and confirms their candidates
type Orchestrator struct {
	repo           Repository
	scorer         scoring.Scorer
	notifier       Notifier
	maxConcurrency int
	now            func() time.Time
	tracer         trace.Tracer
	metrics        *telemetry.MatchingMetrics
}

// New creates an Orchestrator
func New(repo Repository, scorer scoring.Scorer, notifier Notifier, opts ...Option) (*Orchestrator, error) {
	if repo == nil || scorer == nil || notifier == nil {
		return nil, fmt.Errorf("repository, scorer and notifier are required")
	}
	o := &options{maxConcurrency: DefaultMaxConcurrency, now: time.Now}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return &Orchestrator{
		repo:           repo,
		scorer:         scorer,
		notifier:       notifier,
		maxConcurrency: o.maxConcurrency,
		now:            o.now,
		tracer:         o.tracer,
		metrics:        o.metrics,
	}, nil
}

// matchable reports whether a session may run for a donation in status s
func matchable(s donation.Status) bool {
	return donation.CanTransition(s, donation.StatusAwaitingRecipientApproval)
}

// RunSession ranks and scores every approved home for the donation. It never
// changes the donation, so sessions can be re-run freely. Scoring failures are
// reported per candidate, never as an error.
func (o *Orchestrator) RunSession(ctx context.Context, donationID uuid.UUID) (_ *Session, err error) {
	ctx, span := otel.StartSpan(ctx, o.tracer, "matching.RunSession",
		trace.WithAttributes(otel.AttrDonationID.String(donationID.String())),
	)
	defer func() {
		otel.RecordError(span, err)
		span.End()
	}()

	d, err := o.repo.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if !matchable(d.Status) {
		return nil, fmt.Errorf("%w: %w: status is %s", ErrNotMatchable, donation.ErrInvalidTransition, d.Status)
	}

	donor, err := o.repo.GetDonor(ctx, d.DonorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load donor: %w", err)
	}
	if donor.Location == nil || donor.Location.Validate() != nil {
		return nil, fmt.Errorf("%w: donor %s", ErrDonorUnlocated, donor.ID)
	}

	homes, err := o.repo.ListHomes(ctx, donation.AccountApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list homes: %w", err)
	}

	session := &Session{
		ID:            uuid.New(),
		DonationID:    d.ID,
		StartedAt:     o.now(),
		Matches:       []Candidate{},
		Rejected:      []Candidate{},
		Indeterminate: []Candidate{},
		Unscoreable:   []Candidate{},
	}
	span.SetAttributes(
		otel.AttrSessionID.String(session.ID.String()),
		otel.AttrCandidateCount.Int(len(homes)),
	)

	byID := make(map[uuid.UUID]*donation.Home, len(homes))
	sites := make([]geo.Site, 0, len(homes))
	for _, h := range homes {
		byID[h.ID] = h
		sites = append(sites, geo.Site{ID: h.ID, Location: h.Location})
	}
	ranking := geo.Rank(*donor.Location, sites)

	for _, ex := range ranking.Unscoreable {
		h := byID[ex.ID]
		session.Unscoreable = append(session.Unscoreable, Candidate{
			HomeID:   h.ID,
			HomeName: h.Name,
			Capacity: h.Capacity,
			Detail:   ex.Reason,
		})
	}

	scored, err := o.score(ctx, d, ranking.Ranked, byID)
	if err != nil {
		return nil, err
	}
	for _, c := range scored {
		switch c.Verdict {
		case scoring.Positive:
			session.Matches = append(session.Matches, c)
		case scoring.Negative:
			session.Rejected = append(session.Rejected, c)
		default:
			session.Indeterminate = append(session.Indeterminate, c)
		}
	}

	session.FinishedAt = o.now()
	span.SetAttributes(otel.AttrResultCount.Int(len(session.Matches)))
	o.metrics.RecordSession(ctx, session.FinishedAt.Sub(session.StartedAt), session.outcomes())

	slog.InfoContext(ctx, "Matching session finished",
		"donation_id", d.ID,
		"session_id", session.ID,
		"matches", len(session.Matches),
		"rejected", len(session.Rejected),
		"indeterminate", len(session.Indeterminate),
		"unscoreable", len(session.Unscoreable),
	)
	return session, nil
}

// score asks the scorer about every ranked home with bounded concurrency.
// The returned slice keeps the ranking order.
func (o *Orchestrator) score(
	ctx context.Context,
	d *donation.Donation,
	ranked []geo.RankedSite,
	homes map[uuid.UUID]*donation.Home,
) ([]Candidate, error) {
	out := make([]Candidate, len(ranked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrency)
	for i, site := range ranked {
		h := homes[site.ID]
		distance := geo.Round2(site.DistanceKM)
		g.Go(func() error {
			res, err := o.scorer.Score(gctx, scoring.Features{
				Quantity:   d.Quantity,
				Capacity:   float64(h.Capacity),
				DistanceKM: distance,
			})
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.WarnContext(gctx, "Scoring failed, candidate left without verdict",
					"donation_id", d.ID, "home_id", h.ID, "error", err)
				res = scoring.Result{Verdict: scoring.Indeterminate, Detail: err.Error()}
			}
			out[i] = Candidate{
				HomeID:     h.ID,
				HomeName:   h.Name,
				Capacity:   h.Capacity,
				DistanceKM: distance,
				Verdict:    res.Verdict,
				Detail:     res.Detail,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Confirm offers the donation to homeID on behalf of an admin, persists the
// transition and notifies donor and home. A concurrent transition makes the
// losing call fail with donation.ErrConflict.
func (o *Orchestrator) Confirm(
	ctx context.Context,
	donationID, homeID uuid.UUID,
	actor donation.Actor,
) (_ *Confirmation, err error) {
	ctx, span := otel.StartSpan(ctx, o.tracer, "matching.Confirm",
		trace.WithAttributes(
			otel.AttrDonationID.String(donationID.String()),
			otel.AttrHomeID.String(homeID.String()),
			otel.AttrActorRole.String(string(actor.Role)),
		),
	)
	defer func() {
		otel.RecordError(span, err)
		span.End()
		o.metrics.RecordConfirmation(ctx, err == nil)
	}()

	d, err := o.repo.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	home, err := o.repo.GetHome(ctx, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load home: %w", err)
	}
	if home.Status != donation.AccountApproved {
		return nil, fmt.Errorf("%w: %w: home %s is %s", ErrHomeUnavailable, donation.ErrInvalidInput, home.ID, home.Status)
	}

	event, err := donation.ConfirmMatch(d, actor, home.ID, o.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := o.repo.UpdateDonation(ctx, d); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Match confirmed", "donation_id", d.ID, "home_id", home.ID)

	sent, dispatchErr := o.notifier.Dispatch(ctx, event)
	if dispatchErr != nil {
		slog.ErrorContext(ctx, "Failed to store match notifications", "donation_id", d.ID, "error", dispatchErr)
	}
	return &Confirmation{Donation: d, Notifications: sent, Event: event}, nil
}
