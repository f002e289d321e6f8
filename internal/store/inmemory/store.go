// Package inmemory provides a process-local store.Store, used for development
// and as the reference behaviour in tests.
package inmemory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/store"
)

// Store keeps every entity in maps guarded by a single RWMutex. All values
// cross the boundary as copies.
type Store struct {
	mu            sync.RWMutex
	donors        map[uuid.UUID]*donation.Donor
	homes         map[uuid.UUID]*donation.Home
	donations     map[uuid.UUID]*donation.Donation
	notifications map[uuid.UUID]*notify.Notification
}

var _ store.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		donors:        make(map[uuid.UUID]*donation.Donor),
		homes:         make(map[uuid.UUID]*donation.Home),
		donations:     make(map[uuid.UUID]*donation.Donation),
		notifications: make(map[uuid.UUID]*notify.Notification),
	}
}

// Ping always succeeds
func (*Store) Ping(context.Context) error { return nil }

// Close is a no-op
func (*Store) Close() {}

// CreateDonor implements store.Store
func (s *Store) CreateDonor(_ context.Context, d *donation.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.donors[d.ID]; ok {
		return fmt.Errorf("%w: donor %s", store.ErrAlreadyExists, d.ID)
	}
	for _, existing := range s.donors {
		if existing.Email == d.Email {
			return fmt.Errorf("%w: donor email %s", store.ErrAlreadyExists, d.Email)
		}
	}
	s.donors[d.ID] = copyDonor(d)
	return nil
}

// GetDonor implements store.Store
func (s *Store) GetDonor(_ context.Context, id uuid.UUID) (*donation.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.donors[id]
	if !ok {
		return nil, fmt.Errorf("%w: donor %s", store.ErrNotFound, id)
	}
	return copyDonor(d), nil
}

// UpdateDonor implements store.Store
func (s *Store) UpdateDonor(_ context.Context, d *donation.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.donors[d.ID]; !ok {
		return fmt.Errorf("%w: donor %s", store.ErrNotFound, d.ID)
	}
	s.donors[d.ID] = copyDonor(d)
	return nil
}

// ListDonors implements store.Store
func (s *Store) ListDonors(_ context.Context, status donation.AccountStatus) ([]*donation.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*donation.Donor, 0, len(s.donors))
	for _, d := range s.donors {
		if status == "" || d.Status == status {
			out = append(out, copyDonor(d))
		}
	}
	slices.SortFunc(out, func(a, b *donation.Donor) int { return cmp.Compare(a.FullName, b.FullName) })
	return out, nil
}

// CreateHome implements store.Store
func (s *Store) CreateHome(_ context.Context, h *donation.Home) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.homes[h.ID]; ok {
		return fmt.Errorf("%w: home %s", store.ErrAlreadyExists, h.ID)
	}
	for _, existing := range s.homes {
		if existing.Email == h.Email {
			return fmt.Errorf("%w: home email %s", store.ErrAlreadyExists, h.Email)
		}
	}
	s.homes[h.ID] = copyHome(h)
	return nil
}

// GetHome implements store.Store
func (s *Store) GetHome(_ context.Context, id uuid.UUID) (*donation.Home, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.homes[id]
	if !ok {
		return nil, fmt.Errorf("%w: home %s", store.ErrNotFound, id)
	}
	return copyHome(h), nil
}

// UpdateHome implements store.Store
func (s *Store) UpdateHome(_ context.Context, h *donation.Home) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.homes[h.ID]; !ok {
		return fmt.Errorf("%w: home %s", store.ErrNotFound, h.ID)
	}
	s.homes[h.ID] = copyHome(h)
	return nil
}

// ListHomes implements store.Store
func (s *Store) ListHomes(_ context.Context, status donation.AccountStatus) ([]*donation.Home, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*donation.Home, 0, len(s.homes))
	for _, h := range s.homes {
		if status == "" || h.Status == status {
			out = append(out, copyHome(h))
		}
	}
	slices.SortFunc(out, func(a, b *donation.Home) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

// CreateDonation implements store.Store
func (s *Store) CreateDonation(_ context.Context, d *donation.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.donations[d.ID]; ok {
		return fmt.Errorf("%w: donation %s", store.ErrAlreadyExists, d.ID)
	}
	if _, ok := s.donors[d.DonorID]; !ok {
		return fmt.Errorf("%w: donor %s", store.ErrNotFound, d.DonorID)
	}
	s.donations[d.ID] = d.Clone()
	return nil
}

// GetDonation implements store.Store
func (s *Store) GetDonation(_ context.Context, id uuid.UUID) (*donation.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.donations[id]
	if !ok {
		return nil, fmt.Errorf("%w: donation %s", store.ErrNotFound, id)
	}
	return d.Clone(), nil
}

// UpdateDonation implements store.Store
func (s *Store) UpdateDonation(_ context.Context, d *donation.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.donations[d.ID]
	if !ok {
		return fmt.Errorf("%w: donation %s", store.ErrNotFound, d.ID)
	}
	if current.Version != d.Version {
		return fmt.Errorf("%w: donation %s is at version %d, not %d",
			store.ErrConflict, d.ID, current.Version, d.Version)
	}

	d.Version++
	s.donations[d.ID] = d.Clone()
	return nil
}

// ListDonations implements store.Store
func (s *Store) ListDonations(_ context.Context, filter store.DonationFilter) ([]*donation.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*donation.Donation
	for _, d := range s.donations {
		if filter.Matches(d) {
			out = append(out, d.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *donation.Donation) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// CountDonations implements store.Store
func (s *Store) CountDonations(_ context.Context) (map[donation.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[donation.Status]int)
	for _, d := range s.donations {
		counts[d.Status]++
	}
	return counts, nil
}

// CreateNotification implements store.Store
func (s *Store) CreateNotification(_ context.Context, n *notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[n.ID]; ok {
		return fmt.Errorf("%w: notification %s", store.ErrAlreadyExists, n.ID)
	}
	s.notifications[n.ID] = copyNotification(n)
	return nil
}

// ListNotifications implements store.Store
func (s *Store) ListNotifications(_ context.Context, recipientID uuid.UUID) ([]*notify.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*notify.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, copyNotification(n))
		}
	}
	slices.SortFunc(out, func(a, b *notify.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// SetNotificationRead implements store.Store
func (s *Store) SetNotificationRead(_ context.Context, id, recipientID uuid.UUID, read bool) (*notify.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return nil, fmt.Errorf("%w: notification %s", store.ErrNotFound, id)
	}
	n.Read = read
	return copyNotification(n), nil
}

func copyDonor(d *donation.Donor) *donation.Donor {
	c := *d
	if d.Location != nil {
		loc := *d.Location
		c.Location = &loc
	}
	return &c
}

func copyHome(h *donation.Home) *donation.Home {
	c := *h
	if h.Location != nil {
		loc := *h.Location
		c.Location = &loc
	}
	return &c
}

func copyNotification(n *notify.Notification) *notify.Notification {
	c := *n
	c.Details = maps.Clone(n.Details)
	return &c
}
