package donation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransitionEvent describes one committed status change
type TransitionEvent struct {
	DonationID uuid.UUID `json:"donationId"`
	From       Status    `json:"from"`
	To         Status    `json:"to"`
	Actor      Actor     `json:"actor"`
	// HomeID is the home the transition concerns: the newly matched home, or
	// the home whose match was cleared by a rejection.
	HomeID *uuid.UUID `json:"homeId,omitempty"`
	Reason string     `json:"reason,omitempty"`
	At     time.Time  `json:"at"`
}

// graph lists the legal status edges
var graph = map[Status][]Status{
	StatusPending:                   {StatusAwaitingRecipientApproval, StatusRejected},
	StatusPendingAdminReview:        {StatusApproved, StatusMatched, StatusRejected},
	StatusApproved:                  {StatusAwaitingRecipientApproval, StatusRejected},
	StatusMatched:                   {StatusAwaitingRecipientApproval, StatusRejected},
	StatusAwaitingRecipientApproval: {StatusCompleted, StatusRejected},
}

// CanTransition reports whether from -> to is an edge of the lifecycle graph
func CanTransition(from, to Status) bool {
	for _, s := range graph[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Approve admits a donation awaiting admin review. With a home it goes straight
// to matched; without one it becomes approved and waits for a match.
func Approve(d *Donation, actor Actor, homeID *uuid.UUID, now time.Time) (TransitionEvent, error) {
	if actor.Role != RoleAdmin {
		return TransitionEvent{}, fmt.Errorf("%w: only an admin can approve donations", ErrForbidden)
	}
	if homeID != nil && *homeID == uuid.Nil {
		return TransitionEvent{}, fmt.Errorf("%w: home id is empty", ErrInvalidInput)
	}

	to := StatusApproved
	if homeID != nil {
		to = StatusMatched
	}
	if d.Status != StatusPendingAdminReview {
		return TransitionEvent{}, illegal(d, to)
	}

	if homeID != nil {
		id := *homeID
		d.MatchedHomeID = &id
	}
	return apply(d, actor, to, d.MatchedHomeID, "", now), nil
}

// Reject terminalizes a donation. An admin may reject before the donation is
// offered to a home; once offered, only the matched home may reject it. The
// matched-home reference is cleared either way.
func Reject(d *Donation, actor Actor, reason string, now time.Time) (TransitionEvent, error) {
	if d.Status.Terminal() {
		return TransitionEvent{}, illegal(d, StatusRejected)
	}

	switch actor.Role {
	case RoleAdmin:
		if d.Status == StatusAwaitingRecipientApproval {
			return TransitionEvent{}, fmt.Errorf("%w: donation is awaiting the matched home's decision", ErrForbidden)
		}
	case RoleHome:
		if d.MatchedHomeID == nil || *d.MatchedHomeID != actor.ID {
			return TransitionEvent{}, fmt.Errorf("%w: donation is not matched with this home", ErrForbidden)
		}
		if d.Status != StatusAwaitingRecipientApproval {
			return TransitionEvent{}, illegal(d, StatusRejected)
		}
	default:
		return TransitionEvent{}, fmt.Errorf("%w: %s cannot reject donations", ErrForbidden, actor.Role)
	}

	previous := d.MatchedHomeID
	d.MatchedHomeID = nil
	if reason != "" {
		r := reason
		d.RejectionReason = &r
	}
	return apply(d, actor, StatusRejected, previous, reason, now), nil
}

// ConfirmMatch offers the donation to homeID and waits for its decision
func ConfirmMatch(d *Donation, actor Actor, homeID uuid.UUID, now time.Time) (TransitionEvent, error) {
	if actor.Role != RoleAdmin {
		return TransitionEvent{}, fmt.Errorf("%w: only an admin can confirm matches", ErrForbidden)
	}
	if homeID == uuid.Nil {
		return TransitionEvent{}, fmt.Errorf("%w: home id is required", ErrInvalidInput)
	}
	if !CanTransition(d.Status, StatusAwaitingRecipientApproval) {
		return TransitionEvent{}, illegal(d, StatusAwaitingRecipientApproval)
	}

	id := homeID
	d.MatchedHomeID = &id
	return apply(d, actor, StatusAwaitingRecipientApproval, d.MatchedHomeID, "", now), nil
}

// Accept completes a donation on behalf of its matched home
func Accept(d *Donation, actor Actor, now time.Time) (TransitionEvent, error) {
	if actor.Role != RoleHome || d.MatchedHomeID == nil || *d.MatchedHomeID != actor.ID {
		return TransitionEvent{}, fmt.Errorf("%w: only the matched home can accept a donation", ErrForbidden)
	}
	if d.Status != StatusAwaitingRecipientApproval {
		return TransitionEvent{}, illegal(d, StatusCompleted)
	}
	return apply(d, actor, StatusCompleted, d.MatchedHomeID, "", now), nil
}

func apply(d *Donation, actor Actor, to Status, homeID *uuid.UUID, reason string, now time.Time) TransitionEvent {
	from := d.Status
	d.Status = to
	d.UpdatedAt = now

	var home *uuid.UUID
	if homeID != nil {
		id := *homeID
		home = &id
	}

	return TransitionEvent{
		DonationID: d.ID,
		From:       from,
		To:         to,
		Actor:      actor,
		HomeID:     home,
		Reason:     reason,
		At:         now,
	}
}

func illegal(d *Donation, to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
}
