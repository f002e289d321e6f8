package service

import (
	"context"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/store"
)

// Stats implements Service
func (c *Coordinator) Stats(ctx context.Context, actor donation.Actor) (_ *Stats, err error) {
	ctx, span := c.startSpan(ctx, "service.Stats", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleAdmin); err != nil {
		return nil, err
	}
	donors, err := c.store.ListDonors(ctx, donation.AccountApproved)
	if err != nil {
		return nil, err
	}
	homes, err := c.store.ListHomes(ctx, donation.AccountApproved)
	if err != nil {
		return nil, err
	}
	counts, err := c.store.CountDonations(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		ApprovedDonors:     len(donors),
		ApprovedHomes:      len(homes),
		CompletedDonations: counts[donation.StatusCompleted],
		PendingApprovals:   counts[donation.StatusPending] + counts[donation.StatusPendingAdminReview],
	}, nil
}

// DonorSummary implements Service
func (c *Coordinator) DonorSummary(ctx context.Context, actor donation.Actor) (_ *DonorSummary, err error) {
	ctx, span := c.startSpan(ctx, "service.DonorSummary", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleDonor); err != nil {
		return nil, err
	}
	id := actor.ID
	ds, err := c.store.ListDonations(ctx, store.DonationFilter{DonorID: &id})
	if err != nil {
		return nil, err
	}

	s := &DonorSummary{TotalDonations: len(ds)}
	for _, d := range ds {
		switch d.Status {
		case donation.StatusPending:
			s.PendingMatches++
			s.ActiveDonations++
		case donation.StatusPendingAdminReview, donation.StatusApproved,
			donation.StatusMatched, donation.StatusAwaitingRecipientApproval:
			s.ActiveDonations++
		case donation.StatusCompleted:
			s.SuccessfulMatches++
		}
	}
	return s, nil
}

// HomeSummary implements Service
func (c *Coordinator) HomeSummary(ctx context.Context, actor donation.Actor) (_ *HomeSummary, err error) {
	ctx, span := c.startSpan(ctx, "service.HomeSummary", actor)
	defer func() { endSpan(span, err) }()

	if err := requireRole(actor, donation.RoleHome); err != nil {
		return nil, err
	}
	id := actor.ID
	ds, err := c.store.ListDonations(ctx, store.DonationFilter{HomeID: &id})
	if err != nil {
		return nil, err
	}
	upcoming, err := c.upcoming(ctx, id)
	if err != nil {
		return nil, err
	}

	s := &HomeSummary{TotalDonations: len(ds), UpcomingDeliveries: len(upcoming)}
	for _, d := range ds {
		switch d.Status {
		case donation.StatusAwaitingRecipientApproval:
			s.AwaitingApproval++
		case donation.StatusCompleted:
			s.CompletedDeliveries++
		}
	}
	return s, nil
}
