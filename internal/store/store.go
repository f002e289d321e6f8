// Package store defines persistence for donors, homes, donations and notifications.
//
// Entities are stored by ID and returned as copies; callers mutate their copy
// and write it back. Donation writes are compare-and-swap on Version.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/notify"
)

var (
	// ErrNotFound is returned when an entity does not exist
	ErrNotFound = donation.ErrNotFound
	// ErrConflict is returned when a donation write lost a version race
	ErrConflict = donation.ErrConflict
	// ErrAlreadyExists is returned when creating an entity whose ID or unique key is taken
	ErrAlreadyExists = errors.New("already exists")
)

// DonationFilter selects donations. Zero fields match everything.
type DonationFilter struct {
	Statuses []donation.Status
	DonorID  *uuid.UUID
	HomeID   *uuid.UUID
}

// Matches reports whether d satisfies the filter
func (f DonationFilter) Matches(d *donation.Donation) bool {
	if f.DonorID != nil && d.DonorID != *f.DonorID {
		return false
	}
	if f.HomeID != nil && (d.MatchedHomeID == nil || *d.MatchedHomeID != *f.HomeID) {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if d.Status == s {
			return true
		}
	}
	return false
}

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// Store is the persistence boundary of the coordinator
type Store interface {
	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	CreateDonor(ctx context.Context, d *donation.Donor) error
	GetDonor(ctx context.Context, id uuid.UUID) (*donation.Donor, error)
	UpdateDonor(ctx context.Context, d *donation.Donor) error
	// ListDonors returns donors with the given status, or all donors for ""
	ListDonors(ctx context.Context, status donation.AccountStatus) ([]*donation.Donor, error)

	CreateHome(ctx context.Context, h *donation.Home) error
	GetHome(ctx context.Context, id uuid.UUID) (*donation.Home, error)
	UpdateHome(ctx context.Context, h *donation.Home) error
	// ListHomes returns homes with the given status, or all homes for ""
	ListHomes(ctx context.Context, status donation.AccountStatus) ([]*donation.Home, error)

	CreateDonation(ctx context.Context, d *donation.Donation) error
	GetDonation(ctx context.Context, id uuid.UUID) (*donation.Donation, error)
	// UpdateDonation writes d if the stored version still equals d.Version and
	// then increments d.Version. A stale version yields ErrConflict.
	UpdateDonation(ctx context.Context, d *donation.Donation) error
	// ListDonations returns matching donations, newest first
	ListDonations(ctx context.Context, filter DonationFilter) ([]*donation.Donation, error)
	// CountDonations returns the number of donations per status
	CountDonations(ctx context.Context) (map[donation.Status]int, error)

	CreateNotification(ctx context.Context, n *notify.Notification) error
	// ListNotifications returns a recipient's notifications, newest first
	ListNotifications(ctx context.Context, recipientID uuid.UUID) ([]*notify.Notification, error)
	// SetNotificationRead toggles the read flag of a notification owned by recipientID
	SetNotificationRead(ctx context.Context, id, recipientID uuid.UUID, read bool) (*notify.Notification, error)

	Close()
}
