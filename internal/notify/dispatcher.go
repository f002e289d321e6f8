package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/events"
	"github.com/stacklok/donation-coordinator/internal/otel"
)

// TracerName is the name used for the dispatcher tracer
const TracerName = "github.com/stacklok/donation-coordinator/notify"

const (
	noReason      = "No reason provided."
	unnamedHome   = "a child care home"
	unnamedDonor  = "a donor"
	notApplicable = "N/A"
)

// Directory resolves the actors and donation a transition refers to
type Directory interface {
	GetDonor(ctx context.Context, id uuid.UUID) (*donation.Donor, error)
	GetHome(ctx context.Context, id uuid.UUID) (*donation.Home, error)
	GetDonation(ctx context.Context, id uuid.UUID) (*donation.Donation, error)
}

// Repository persists notifications
type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
}

type options struct {
	publisher events.Publisher
	tracer    trace.Tracer
}

// Option configures a Dispatcher
type Option func(*options) error

// WithPublisher offers every stored notification to p
func WithPublisher(p events.Publisher) Option {
	return func(o *options) error {
		if p == nil {
			return fmt.Errorf("publisher cannot be nil")
		}
		o.publisher = p
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}

// Dispatcher turns committed transitions into notifications for the
// counterpart actors.
type Dispatcher struct {
	dir       Directory
	repo      Repository
	publisher events.Publisher
	tracer    trace.Tracer
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(dir Directory, repo Repository, opts ...Option) (*Dispatcher, error) {
	if dir == nil || repo == nil {
		return nil, fmt.Errorf("directory and repository are required")
	}
	o := &options{publisher: events.NopPublisher{}}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return &Dispatcher{dir: dir, repo: repo, publisher: o.publisher, tracer: o.tracer}, nil
}

// Dispatch creates the notifications for event and returns the ones stored.
// Missing donors or homes are logged and skipped. The returned error joins
// persistence failures only; callers treat it as non-fatal because the
// transition has already been committed.
func (d *Dispatcher) Dispatch(ctx context.Context, event donation.TransitionEvent) ([]Notification, error) {
	ctx, span := otel.StartSpan(ctx, d.tracer, "notify.Dispatch",
		trace.WithAttributes(
			otel.AttrDonationID.String(event.DonationID.String()),
			otel.AttrDonationStatus.String(string(event.To)),
		),
	)
	defer span.End()

	don, err := d.dir.GetDonation(ctx, event.DonationID)
	if err != nil {
		slog.WarnContext(ctx, "Skipping notifications for unknown donation",
			"donation_id", event.DonationID, "error", err)
		return nil, nil
	}

	drafts := d.build(ctx, event, don)

	created := make([]Notification, 0, len(drafts))
	var errs []error
	for _, n := range drafts {
		n.ID = uuid.New()
		n.DonationID = don.ID
		n.CreatedAt = event.At
		n.Details["donationId"] = don.ID.String()

		if err := d.repo.CreateNotification(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("failed to store %s notification: %w", n.Type, err))
			continue
		}
		created = append(created, *n)
		d.publish(ctx, n)
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(created)))
	err = errors.Join(errs...)
	otel.RecordError(span, err)
	return created, err
}

func (d *Dispatcher) publish(ctx context.Context, n *Notification) {
	env := events.Envelope{Kind: events.KindNotification, OccurredAt: n.CreatedAt, Payload: n}
	if err := d.publisher.Publish(ctx, n.DonationID.String(), env); err != nil {
		slog.WarnContext(ctx, "Failed to publish notification",
			"notification_id", n.ID, "type", n.Type, "error", err)
	}
}

func (d *Dispatcher) build(ctx context.Context, event donation.TransitionEvent, don *donation.Donation) []*Notification {
	switch event.To {
	case donation.StatusAwaitingRecipientApproval:
		return d.matchConfirmed(ctx, event, don)
	case donation.StatusMatched:
		return d.approvedWithHome(ctx, event, don)
	case donation.StatusApproved:
		donor := d.donor(ctx, don.DonorID)
		if donor == nil {
			return nil
		}
		return []*Notification{{
			RecipientID:   donor.ID,
			RecipientKind: RecipientDonor,
			Type:          TypeNonFoodApproved,
			Message: fmt.Sprintf("Your %s donation has been approved by the admin! "+
				"We will notify you when a home is ready to receive it.", don.Category),
			Details: map[string]any{"donationType": string(don.Category)},
		}}
	case donation.StatusRejected:
		return d.rejected(ctx, event, don)
	case donation.StatusCompleted:
		donor := d.donor(ctx, don.DonorID)
		if donor == nil {
			return nil
		}
		homeName := notApplicable
		by := unnamedHome
		if home := d.home(ctx, event.HomeID); home != nil {
			homeName, by = home.Name, home.Name
		}
		return []*Notification{{
			RecipientID:   donor.ID,
			RecipientKind: RecipientDonor,
			Type:          TypeDonationAccepted,
			Message:       fmt.Sprintf("Your donation of %s has been accepted by %s!", don.Label(), by),
			Details:       map[string]any{"homeName": homeName},
		}}
	default:
		return nil
	}
}

func (d *Dispatcher) matchConfirmed(ctx context.Context, event donation.TransitionEvent, don *donation.Donation) []*Notification {
	donor := d.donor(ctx, don.DonorID)
	home := d.home(ctx, event.HomeID)
	if donor == nil || home == nil {
		return nil
	}
	return []*Notification{
		{
			RecipientID:   donor.ID,
			RecipientKind: RecipientDonor,
			Type:          TypeDonationMatched,
			Message: fmt.Sprintf("Your donation of %s has been matched with %s (Address: %s, Phone: %s) "+
				"and is awaiting their approval.", don.Label(), home.Name, home.Address, home.PhoneNumber),
			Details: homeContact(home),
		},
		{
			RecipientID:   home.ID,
			RecipientKind: RecipientHome,
			Type:          TypeNewDonationRequest,
			Message: fmt.Sprintf("A new donation of %s from %s (Address: %s, Phone: %s) is awaiting your approval.",
				don.Label(), donor.FullName, donor.Address, donor.PhoneNumber),
			Details: donorContact(donor),
		},
	}
}

func (d *Dispatcher) approvedWithHome(ctx context.Context, event donation.TransitionEvent, don *donation.Donation) []*Notification {
	home := d.home(ctx, event.HomeID)
	if home == nil {
		return nil
	}
	donor := d.donor(ctx, don.DonorID)

	homeDetails := map[string]any{
		"donationDescription": string(don.Category),
		"deliveryDateTime":    don.PreferredDeliveryAt.Format(time.RFC3339),
	}
	from := unnamedDonor
	if donor != nil {
		from = donor.FullName
		for k, v := range donorContact(donor) {
			homeDetails[k] = v
		}
	}
	out := []*Notification{{
		RecipientID:   home.ID,
		RecipientKind: RecipientHome,
		Type:          TypeNewNonFoodMatch,
		Message:       "New Donation Request from " + from,
		Details:       homeDetails,
	}}

	if donor != nil {
		out = append([]*Notification{{
			RecipientID:   donor.ID,
			RecipientKind: RecipientDonor,
			Type:          TypeNonFoodApproved,
			Message: fmt.Sprintf("Your %s donation has been approved by the admin! "+
				"It has been matched with %s (Address: %s, Phone: %s).",
				don.Category, home.Name, home.Address, home.PhoneNumber),
			Details: map[string]any{
				"donationType": string(don.Category),
				"matchedHome": map[string]any{
					"id":          home.ID.String(),
					"homeName":    home.Name,
					"address":     home.Address,
					"phoneNumber": home.PhoneNumber,
				},
			},
		}}, out...)
	}
	return out
}

func (d *Dispatcher) rejected(ctx context.Context, event donation.TransitionEvent, don *donation.Donation) []*Notification {
	donor := d.donor(ctx, don.DonorID)
	if donor == nil {
		return nil
	}
	reason := event.Reason
	if reason == "" {
		reason = noReason
	}

	if event.Actor.Role == donation.RoleHome {
		homeName := notApplicable
		by := unnamedHome
		if home := d.home(ctx, event.HomeID); home != nil {
			homeName, by = home.Name, home.Name
		}
		return []*Notification{{
			RecipientID:   donor.ID,
			RecipientKind: RecipientDonor,
			Type:          TypeDonationRejected,
			Message:       fmt.Sprintf("Your donation of %s was rejected by %s. Reason: %s", don.Label(), by, reason),
			Details:       map[string]any{"reason": event.Reason, "homeName": homeName},
		}}
	}

	n := &Notification{
		RecipientID:   donor.ID,
		RecipientKind: RecipientDonor,
		Type:          TypeDonationRejectedByAdmin,
		Message:       fmt.Sprintf("Your donation of %s was rejected by the admin. Reason: %s", don.Label(), reason),
		Details:       map[string]any{"reason": event.Reason},
	}
	if don.Category != donation.CategoryFood {
		n.Type = TypeNonFoodRejected
		n.Message = fmt.Sprintf("Your %s donation was rejected by the admin. Reason: %s", don.Category, reason)
	}
	return []*Notification{n}
}

func (d *Dispatcher) donor(ctx context.Context, id uuid.UUID) *donation.Donor {
	donor, err := d.dir.GetDonor(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "Donor not found, skipping notification", "donor_id", id, "error", err)
		return nil
	}
	return donor
}

func (d *Dispatcher) home(ctx context.Context, id *uuid.UUID) *donation.Home {
	if id == nil {
		return nil
	}
	home, err := d.dir.GetHome(ctx, *id)
	if err != nil {
		slog.WarnContext(ctx, "Home not found, skipping notification", "home_id", *id, "error", err)
		return nil
	}
	return home
}

func homeContact(h *donation.Home) map[string]any {
	return map[string]any{
		"homeName":        h.Name,
		"homeAddress":     h.Address,
		"homePhoneNumber": h.PhoneNumber,
	}
}

func donorContact(d *donation.Donor) map[string]any {
	return map[string]any{
		"donorName":        d.FullName,
		"donorAddress":     d.Address,
		"donorPhoneNumber": d.PhoneNumber,
	}
}
