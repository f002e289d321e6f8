package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/events"
	"github.com/stacklok/donation-coordinator/internal/geo"
	"github.com/stacklok/donation-coordinator/internal/geocode"
	"github.com/stacklok/donation-coordinator/internal/matching"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/otel"
	"github.com/stacklok/donation-coordinator/internal/store"
	"github.com/stacklok/donation-coordinator/internal/telemetry"
)

// TracerName is the name used for the service tracer
const TracerName = "github.com/stacklok/donation-coordinator/service"

// Matcher runs and confirms matching sessions
type Matcher interface {
	RunSession(ctx context.Context, donationID uuid.UUID) (*matching.Session, error)
	Confirm(ctx context.Context, donationID, homeID uuid.UUID, actor donation.Actor) (*matching.Confirmation, error)
}

// Notifier fans a committed transition out to the affected actors
type Notifier interface {
	Dispatch(ctx context.Context, event donation.TransitionEvent) ([]notify.Notification, error)
}

// Coordinator implements Service on top of a store.Store
type Coordinator struct {
	store     store.Store
	matcher   Matcher
	notifier  Notifier
	resolver  geocode.Resolver
	publisher events.Publisher
	now       func() time.Time
	tracer    trace.Tracer
	metrics   *telemetry.DonationMetrics
}

var _ Service = (*Coordinator)(nil)

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator) error

// WithResolver sets the geocoder used by location updates
func WithResolver(r geocode.Resolver) CoordinatorOption {
	return func(c *Coordinator) error {
		if r == nil {
			return fmt.Errorf("resolver cannot be nil")
		}
		c.resolver = r
		return nil
	}
}

// WithPublisher sets the publisher for lifecycle events
func WithPublisher(p events.Publisher) CoordinatorOption {
	return func(c *Coordinator) error {
		if p == nil {
			return fmt.Errorf("publisher cannot be nil")
		}
		c.publisher = p
		return nil
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer.
// If not set, tracing will be disabled (no-op).
func WithTracer(tracer trace.Tracer) CoordinatorOption {
	return func(c *Coordinator) error {
		c.tracer = tracer
		return nil
	}
}

// WithMetrics sets the transition counter. Nil disables metrics.
func WithMetrics(m *telemetry.DonationMetrics) CoordinatorOption {
	return func(c *Coordinator) error {
		c.metrics = m
		return nil
	}
}

// New creates a Coordinator. Without WithResolver every location update
// leaves the entity unscoreable.
func New(s store.Store, matcher Matcher, notifier Notifier, opts ...CoordinatorOption) (*Coordinator, error) {
	if s == nil || matcher == nil || notifier == nil {
		return nil, fmt.Errorf("store, matcher and notifier are required")
	}
	c := &Coordinator{
		store:     s,
		matcher:   matcher,
		notifier:  notifier,
		resolver:  geocode.Disabled{},
		publisher: events.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CheckReadiness implements Service
func (c *Coordinator) CheckReadiness(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}
	return nil
}

func (c *Coordinator) startSpan(ctx context.Context, name string, actor donation.Actor) (context.Context, trace.Span) {
	return otel.StartSpan(ctx, c.tracer, name, trace.WithAttributes(otel.AttrActorRole.String(string(actor.Role))))
}

func endSpan(span trace.Span, err error) {
	otel.RecordError(span, err)
	span.End()
}

func requireRole(actor donation.Actor, role donation.Role) error {
	if actor.Role != role {
		return fmt.Errorf("%w: %s role required", donation.ErrForbidden, role)
	}
	return nil
}

// ListPendingDonations implements Service
func (c *Coordinator) ListPendingDonations(ctx context.Context, actor donation.Actor) (_ []*DonationView, err error) {
	ctx, span := c.startSpan(ctx, "service.ListPendingDonations", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleAdmin); err != nil {
		return nil, err
	}
	return c.listViews(ctx, store.DonationFilter{Statuses: []donation.Status{donation.StatusPending}}, 0)
}

// ListPendingReview implements Service
func (c *Coordinator) ListPendingReview(ctx context.Context, actor donation.Actor) (_ []*DonationView, err error) {
	ctx, span := c.startSpan(ctx, "service.ListPendingReview", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleAdmin); err != nil {
		return nil, err
	}
	return c.listViews(ctx, store.DonationFilter{Statuses: []donation.Status{donation.StatusPendingAdminReview}}, 0)
}

// RunMatchingSession implements Service
func (c *Coordinator) RunMatchingSession(
	ctx context.Context,
	actor donation.Actor,
	donationID uuid.UUID,
) (*matching.Session, error) {
	if err := requireRole(actor, donation.RoleAdmin); err != nil {
		return nil, err
	}
	return c.matcher.RunSession(ctx, donationID)
}

// NearestHomes implements Service
func (c *Coordinator) NearestHomes(
	ctx context.Context,
	actor donation.Actor,
	donationID uuid.UUID,
) (_ *NearestHomes, err error) {
	ctx, span := c.startSpan(ctx, "service.NearestHomes", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleAdmin); err != nil {
		return nil, err
	}
	d, err := c.store.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	donor, err := c.store.GetDonor(ctx, d.DonorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load donor: %w", err)
	}
	if donor.Location == nil || donor.Location.Validate() != nil {
		return nil, fmt.Errorf("%w: donor %s", matching.ErrDonorUnlocated, donor.ID)
	}

	homes, err := c.store.ListHomes(ctx, donation.AccountApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list homes: %w", err)
	}
	byID := make(map[uuid.UUID]*donation.Home, len(homes))
	sites := make([]geo.Site, 0, len(homes))
	for _, h := range homes {
		byID[h.ID] = h
		sites = append(sites, geo.Site{ID: h.ID, Location: h.Location})
	}
	ranking := geo.Rank(*donor.Location, sites)

	out := &NearestHomes{
		DonationID:  d.ID,
		Homes:       make([]NearestHome, 0, len(ranking.Ranked)),
		Unscoreable: make([]NearestHome, 0, len(ranking.Unscoreable)),
	}
	for _, r := range ranking.Ranked {
		h := byID[r.ID]
		km := geo.Round2(r.DistanceKM)
		out.Homes = append(out.Homes, NearestHome{
			HomeID: h.ID, Name: h.Name, Address: h.Address, Capacity: h.Capacity,
			Location: h.Location, DistanceKM: &km,
		})
	}
	for _, ex := range ranking.Unscoreable {
		h := byID[ex.ID]
		out.Unscoreable = append(out.Unscoreable, NearestHome{
			HomeID: h.ID, Name: h.Name, Address: h.Address, Capacity: h.Capacity,
			Reason: ex.Reason,
		})
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(out.Homes)))
	return out, nil
}

// ConfirmMatch implements Service
func (c *Coordinator) ConfirmMatch(
	ctx context.Context,
	actor donation.Actor,
	donationID, homeID uuid.UUID,
) (*matching.Confirmation, error) {
	if err := requireRole(actor, donation.RoleAdmin); err != nil {
		return nil, err
	}
	confirmation, err := c.matcher.Confirm(ctx, donationID, homeID, actor)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordTransition(ctx, string(confirmation.Event.From), string(confirmation.Event.To))
	c.publish(ctx, events.KindTransition, confirmation.Event.DonationID, confirmation.Event.At, confirmation.Event)
	return confirmation, nil
}

// ApproveDonation implements Service
func (c *Coordinator) ApproveDonation(
	ctx context.Context,
	actor donation.Actor,
	donationID uuid.UUID,
	homeID *uuid.UUID,
) (_ *donation.Donation, err error) {
	ctx, span := c.startSpan(ctx, "service.ApproveDonation", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleAdmin); err != nil {
		return nil, err
	}
	if homeID != nil {
		home, err := c.store.GetHome(ctx, *homeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load home: %w", err)
		}
		if home.Status != donation.AccountApproved {
			return nil, fmt.Errorf("%w: %w: home %s is %s",
				matching.ErrHomeUnavailable, donation.ErrInvalidInput, home.ID, home.Status)
		}
	}
	return c.transition(ctx, donationID, func(d *donation.Donation, now time.Time) (donation.TransitionEvent, error) {
		return donation.Approve(d, actor, homeID, now)
	})
}

// RejectDonation implements Service
func (c *Coordinator) RejectDonation(
	ctx context.Context,
	actor donation.Actor,
	donationID uuid.UUID,
	reason string,
) (_ *donation.Donation, err error) {
	ctx, span := c.startSpan(ctx, "service.RejectDonation", actor)
	defer func() { endSpan(span, err) }()

	reason = strings.TrimSpace(reason)
	return c.transition(ctx, donationID, func(d *donation.Donation, now time.Time) (donation.TransitionEvent, error) {
		return donation.Reject(d, actor, reason, now)
	})
}

// AcceptDonation implements Service
func (c *Coordinator) AcceptDonation(
	ctx context.Context,
	actor donation.Actor,
	donationID uuid.UUID,
) (_ *donation.Donation, err error) {
	ctx, span := c.startSpan(ctx, "service.AcceptDonation", actor)
	defer func() { endSpan(span, err) }()

	return c.transition(ctx, donationID, func(d *donation.Donation, now time.Time) (donation.TransitionEvent, error) {
		return donation.Accept(d, actor, now)
	})
}

// transition loads a donation, applies fn and persists the result with a
// version check. Notifications and events follow the commit and never fail it.
func (c *Coordinator) transition(
	ctx context.Context,
	donationID uuid.UUID,
	fn func(d *donation.Donation, now time.Time) (donation.TransitionEvent, error),
) (*donation.Donation, error) {
	d, err := c.store.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	event, err := fn(d, c.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := c.store.UpdateDonation(ctx, d); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Donation transitioned",
		"donation_id", d.ID, "from", event.From, "to", event.To, "actor", event.Actor.String())
	c.metrics.RecordTransition(ctx, string(event.From), string(event.To))

	if _, err := c.notifier.Dispatch(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to store notifications", "donation_id", d.ID, "error", err)
	}
	c.publish(ctx, events.KindTransition, d.ID, event.At, event)
	return d, nil
}

func (c *Coordinator) publish(ctx context.Context, kind string, donationID uuid.UUID, at time.Time, payload any) {
	env := events.Envelope{Kind: kind, OccurredAt: at, Payload: payload}
	if err := c.publisher.Publish(ctx, donationID.String(), env); err != nil {
		slog.WarnContext(ctx, "Failed to publish event", "kind", kind, "donation_id", donationID, "error", err)
	}
}

// CreateDonation implements Service
func (c *Coordinator) CreateDonation(
	ctx context.Context,
	actor donation.Actor,
	draft donation.Draft,
) (_ *donation.Donation, err error) {
	ctx, span := c.startSpan(ctx, "service.CreateDonation", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleDonor); err != nil {
		return nil, err
	}
	donor, err := c.store.GetDonor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if donor.Status != donation.AccountApproved {
		return nil, fmt.Errorf("%w: %w: donor %s is %s", donation.ErrForbidden, ErrAccountNotApproved, donor.ID, donor.Status)
	}

	d, err := donation.New(donor.ID, draft, c.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := c.store.CreateDonation(ctx, d); err != nil {
		return nil, err
	}
	span.SetAttributes(
		otel.AttrDonationID.String(d.ID.String()),
		otel.AttrDonationCategory.String(string(d.Category)),
	)
	slog.InfoContext(ctx, "Donation created", "donation_id", d.ID, "donor_id", donor.ID, "status", d.Status)
	c.publish(ctx, events.KindCreated, d.ID, d.CreatedAt, d)
	return d, nil
}

// ListDonorDonations implements Service
func (c *Coordinator) ListDonorDonations(
	ctx context.Context,
	actor donation.Actor,
	opts ...Option[ListDonationsOptions],
) (_ []*DonationView, err error) {
	ctx, span := c.startSpan(ctx, "service.ListDonorDonations", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleDonor); err != nil {
		return nil, err
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	id := actor.ID
	return c.listViews(ctx, store.DonationFilter{Statuses: o.Statuses, DonorID: &id}, o.Limit)
}

// ListHomeDonations implements Service
func (c *Coordinator) ListHomeDonations(
	ctx context.Context,
	actor donation.Actor,
	opts ...Option[ListDonationsOptions],
) (_ []*DonationView, err error) {
	ctx, span := c.startSpan(ctx, "service.ListHomeDonations", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleHome); err != nil {
		return nil, err
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	id := actor.ID
	return c.listViews(ctx, store.DonationFilter{Statuses: o.Statuses, HomeID: &id}, o.Limit)
}

// GetDonation implements Service
func (c *Coordinator) GetDonation(
	ctx context.Context,
	actor donation.Actor,
	donationID uuid.UUID,
) (_ *DonationView, err error) {
	ctx, span := c.startSpan(ctx, "service.GetDonation", actor)
	defer func() { endSpan(span, err) }()

	d, err := c.store.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if err := canView(actor, d); err != nil {
		return nil, err
	}
	views, err := c.views(ctx, []*donation.Donation{d})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func canView(actor donation.Actor, d *donation.Donation) error {
	switch actor.Role {
	case donation.RoleAdmin:
		return nil
	case donation.RoleDonor:
		if d.DonorID == actor.ID {
			return nil
		}
	case donation.RoleHome:
		if d.MatchedHomeID != nil && *d.MatchedHomeID == actor.ID {
			return nil
		}
	}
	return fmt.Errorf("%w: donation is not visible to this %s", donation.ErrForbidden, actor.Role)
}

// UpcomingDeliveries implements Service
func (c *Coordinator) UpcomingDeliveries(ctx context.Context, actor donation.Actor) (_ []*DonationView, err error) {
	ctx, span := c.startSpan(ctx, "service.UpcomingDeliveries", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleHome); err != nil {
		return nil, err
	}
	ds, err := c.upcoming(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return c.views(ctx, ds)
}

// upcoming returns the home's awaiting or completed donations whose preferred
// delivery time has not passed, soonest first
func (c *Coordinator) upcoming(ctx context.Context, homeID uuid.UUID) ([]*donation.Donation, error) {
	ds, err := c.store.ListDonations(ctx, store.DonationFilter{
		Statuses: []donation.Status{donation.StatusAwaitingRecipientApproval, donation.StatusCompleted},
		HomeID:   &homeID,
	})
	if err != nil {
		return nil, err
	}
	now := c.now()
	ds = slices.DeleteFunc(ds, func(d *donation.Donation) bool {
		return d.PreferredDeliveryAt.Before(now)
	})
	slices.SortStableFunc(ds, func(a, b *donation.Donation) int {
		return cmp.Compare(a.PreferredDeliveryAt.UnixNano(), b.PreferredDeliveryAt.UnixNano())
	})
	return ds, nil
}

// UpdateDonorLocation implements Service
func (c *Coordinator) UpdateDonorLocation(
	ctx context.Context,
	actor donation.Actor,
	address string,
) (_ *donation.Donor, err error) {
	ctx, span := c.startSpan(ctx, "service.UpdateDonorLocation", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleDonor); err != nil {
		return nil, err
	}
	donor, err := c.store.GetDonor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	loc, err := c.resolve(ctx, address)
	if err != nil {
		return nil, err
	}
	donor.Address = strings.TrimSpace(address)
	donor.Location = loc
	if err := c.store.UpdateDonor(ctx, donor); err != nil {
		return nil, err
	}
	return donor, nil
}

// UpdateHomeLocation implements Service
func (c *Coordinator) UpdateHomeLocation(
	ctx context.Context,
	actor donation.Actor,
	address string,
) (_ *donation.Home, err error) {
	ctx, span := c.startSpan(ctx, "service.UpdateHomeLocation", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleHome); err != nil {
		return nil, err
	}
	home, err := c.store.GetHome(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	loc, err := c.resolve(ctx, address)
	if err != nil {
		return nil, err
	}
	home.Address = strings.TrimSpace(address)
	home.Location = loc
	if err := c.store.UpdateHome(ctx, home); err != nil {
		return nil, err
	}
	return home, nil
}

// resolve geocodes address. A failed lookup yields nil coordinates rather than
// an error; only blank input and cancellation fail the update.
func (c *Coordinator) resolve(ctx context.Context, address string) (*geo.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", donation.ErrInvalidInput)
	}
	loc, err := c.resolver.Resolve(ctx, address)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		slog.WarnContext(ctx, "Address could not be geocoded, location cleared", "error", err)
		return nil, nil
	}
	return loc, nil
}

// ListNotifications implements Service
func (c *Coordinator) ListNotifications(
	ctx context.Context,
	actor donation.Actor,
	opts ...Option[ListNotificationsOptions],
) (_ []*notify.Notification, err error) {
	ctx, span := c.startSpan(ctx, "service.ListNotifications", actor)
	defer func() { endSpan(span, err) }()

	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	ns, err := c.store.ListNotifications(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if o.UnreadOnly {
		ns = slices.DeleteFunc(ns, func(n *notify.Notification) bool { return n.Read })
	}
	if o.Limit > 0 && len(ns) > o.Limit {
		ns = ns[:o.Limit]
	}
	return ns, nil
}

// MarkRead implements Service
func (c *Coordinator) MarkRead(ctx context.Context, actor donation.Actor, id uuid.UUID) (*notify.Notification, error) {
	return c.store.SetNotificationRead(ctx, id, actor.ID, true)
}

// MarkUnread implements Service
func (c *Coordinator) MarkUnread(ctx context.Context, actor donation.Actor, id uuid.UUID) (*notify.Notification, error) {
	return c.store.SetNotificationRead(ctx, id, actor.ID, false)
}

func (c *Coordinator) listViews(ctx context.Context, filter store.DonationFilter, limit int) ([]*DonationView, error) {
	ds, err := c.store.ListDonations(ctx, filter)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ds) > limit {
		ds = ds[:limit]
	}
	return c.views(ctx, ds)
}

// views resolves the donor and matched home of each donation. Parties that
// no longer resolve are left empty.
func (c *Coordinator) views(ctx context.Context, ds []*donation.Donation) ([]*DonationView, error) {
	donors := map[uuid.UUID]*Party{}
	homes := map[uuid.UUID]*Party{}

	out := make([]*DonationView, 0, len(ds))
	for _, d := range ds {
		v := &DonationView{Donation: d}

		p, ok := donors[d.DonorID]
		if !ok {
			donor, err := c.store.GetDonor(ctx, d.DonorID)
			switch {
			case err == nil:
				p = &Party{ID: donor.ID, Name: donor.FullName, Email: donor.Email,
					PhoneNumber: donor.PhoneNumber, Address: donor.Address}
			case !errors.Is(err, store.ErrNotFound):
				return nil, err
			}
			donors[d.DonorID] = p
		}
		v.Donor = p

		if d.MatchedHomeID != nil {
			p, ok := homes[*d.MatchedHomeID]
			if !ok {
				home, err := c.store.GetHome(ctx, *d.MatchedHomeID)
				switch {
				case err == nil:
					p = &Party{ID: home.ID, Name: home.Name, Email: home.Email,
						PhoneNumber: home.PhoneNumber, Address: home.Address}
				case !errors.Is(err, store.ErrNotFound):
					return nil, err
				}
				homes[*d.MatchedHomeID] = p
			}
			v.Home = p
		}
		out = append(out, v)
	}
	return out, nil
}
