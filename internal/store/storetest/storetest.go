// Package storetest holds the behaviour every store.Store implementation must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/geo"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/store"
)

// Factory returns an empty store for one subtest
type Factory func(t *testing.T) store.Store

// base is truncated to microseconds so values survive a Postgres round trip
var base = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// Run exercises s against the store.Store contract
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("donors and homes", func(t *testing.T) { testActors(t, newStore(t)) })
	t.Run("donation lifecycle", func(t *testing.T) { testDonations(t, newStore(t)) })
	t.Run("stale version conflicts", func(t *testing.T) { testConflict(t, newStore(t)) })
	t.Run("concurrent confirm", func(t *testing.T) { testConcurrentConfirm(t, newStore(t)) })
	t.Run("notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
}

// NewDonor returns an approved donor located in Colombo
func NewDonor(name string) *donation.Donor {
	return &donation.Donor{
		ID:          uuid.New(),
		FullName:    name,
		Email:       uuid.NewString() + "@donors.test",
		PhoneNumber: "0771234567",
		Address:     "12 Galle Road, Colombo",
		Location:    &geo.Coordinates{Latitude: 6.9271, Longitude: 79.8612},
		Status:      donation.AccountApproved,
		CreatedAt:   base,
	}
}

// NewHome returns an approved home at loc
func NewHome(name string, capacity int, loc *geo.Coordinates) *donation.Home {
	return &donation.Home{
		ID:            uuid.New(),
		Name:          name,
		Email:         uuid.NewString() + "@homes.test",
		PhoneNumber:   "0812345678",
		Address:       name + " Road",
		ContactPerson: "Matron",
		Capacity:      capacity,
		Location:      loc,
		Status:        donation.AccountApproved,
		CreatedAt:     base,
	}
}

// NewFoodDonation returns a pending food donation for donorID
func NewFoodDonation(donorID uuid.UUID, createdAt time.Time) *donation.Donation {
	expires := createdAt.Add(72 * time.Hour)
	return &donation.Donation{
		ID:                  uuid.New(),
		DonorID:             donorID,
		Category:            donation.CategoryFood,
		FoodType:            "rice",
		Quantity:            36,
		Unit:                "kg",
		DeliveryMethod:      donation.DeliveryByDonor,
		PreferredDeliveryAt: createdAt.Add(48 * time.Hour),
		ExpiresAt:           &expires,
		Status:              donation.StatusPending,
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
}

func testActors(t *testing.T, s store.Store) {
	ctx := context.Background()

	donor := NewDonor("Nimal Perera")
	require.NoError(t, s.CreateDonor(ctx, donor))
	require.ErrorIs(t, s.CreateDonor(ctx, donor), store.ErrAlreadyExists)

	got, err := s.GetDonor(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, donor.FullName, got.FullName)
	require.NotNil(t, got.Location)
	assert.InDelta(t, 6.9271, got.Location.Latitude, 1e-9)

	got.Location = nil
	got.Address = "unknown"
	require.NoError(t, s.UpdateDonor(ctx, got))
	got, err = s.GetDonor(ctx, donor.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Location)
	assert.Equal(t, "unknown", got.Address)

	_, err = s.GetDonor(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)

	approved := NewHome("Kandy Home", 33, &geo.Coordinates{Latitude: 7.2906, Longitude: 80.6337})
	pending := NewHome("Galle Home", 10, nil)
	pending.Status = donation.AccountPending
	require.NoError(t, s.CreateHome(ctx, approved))
	require.NoError(t, s.CreateHome(ctx, pending))

	homes, err := s.ListHomes(ctx, donation.AccountApproved)
	require.NoError(t, err)
	require.Len(t, homes, 1)
	assert.Equal(t, approved.ID, homes[0].ID)
	assert.Equal(t, 33, homes[0].Capacity)

	homes, err = s.ListHomes(ctx, "")
	require.NoError(t, err)
	assert.Len(t, homes, 2)

	home, err := s.GetHome(ctx, pending.ID)
	require.NoError(t, err)
	assert.Nil(t, home.Location)

	home.Status = donation.AccountApproved
	require.NoError(t, s.UpdateHome(ctx, home))
	require.ErrorIs(t, s.UpdateHome(ctx, NewHome("ghost", 1, nil)), store.ErrNotFound)

	donors, err := s.ListDonors(ctx, donation.AccountApproved)
	require.NoError(t, err)
	assert.Len(t, donors, 1)
}

func testDonations(t *testing.T, s store.Store) {
	ctx := context.Background()

	donor := NewDonor("Kamala")
	home := NewHome("Negombo Home", 34, &geo.Coordinates{Latitude: 7.2083, Longitude: 79.8358})
	require.NoError(t, s.CreateDonor(ctx, donor))
	require.NoError(t, s.CreateHome(ctx, home))

	older := NewFoodDonation(donor.ID, base)
	newer := NewFoodDonation(donor.ID, base.Add(time.Hour))
	require.NoError(t, s.CreateDonation(ctx, older))
	require.NoError(t, s.CreateDonation(ctx, newer))
	require.ErrorIs(t, s.CreateDonation(ctx, older), store.ErrAlreadyExists)

	got, err := s.GetDonation(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, donation.StatusPending, got.Status)
	assert.Zero(t, got.Version)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, older.ExpiresAt.Equal(*got.ExpiresAt))

	admin := donation.Actor{Role: donation.RoleAdmin, ID: uuid.New()}
	_, err = donation.ConfirmMatch(got, admin, home.ID, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.UpdateDonation(ctx, got))
	assert.Equal(t, int64(1), got.Version)

	stored, err := s.GetDonation(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, donation.StatusAwaitingRecipientApproval, stored.Status)
	require.NotNil(t, stored.MatchedHomeID)
	assert.Equal(t, home.ID, *stored.MatchedHomeID)
	assert.Equal(t, int64(1), stored.Version)

	all, err := s.ListDonations(ctx, store.DonationFilter{DonorID: &donor.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID, "newest first")

	byHome, err := s.ListDonations(ctx, store.DonationFilter{HomeID: &home.ID})
	require.NoError(t, err)
	require.Len(t, byHome, 1)
	assert.Equal(t, older.ID, byHome[0].ID)

	pending, err := s.ListDonations(ctx, store.DonationFilter{Statuses: []donation.Status{donation.StatusPending}})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, newer.ID, pending[0].ID)

	counts, err := s.CountDonations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[donation.StatusPending])
	assert.Equal(t, 1, counts[donation.StatusAwaitingRecipientApproval])
	assert.Zero(t, counts[donation.StatusCompleted])

	_, err = s.GetDonation(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.UpdateDonation(ctx, NewFoodDonation(donor.ID, base)), store.ErrNotFound)
}

func testConflict(t *testing.T, s store.Store) {
	ctx := context.Background()

	donor := NewDonor("Sunil")
	require.NoError(t, s.CreateDonor(ctx, donor))
	d := NewFoodDonation(donor.ID, base)
	require.NoError(t, s.CreateDonation(ctx, d))

	first, err := s.GetDonation(ctx, d.ID)
	require.NoError(t, err)
	second, err := s.GetDonation(ctx, d.ID)
	require.NoError(t, err)

	admin := donation.Actor{Role: donation.RoleAdmin, ID: uuid.New()}
	_, err = donation.Reject(first, admin, "expired", base.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, s.UpdateDonation(ctx, first))

	_, err = donation.Reject(second, admin, "duplicate", base.Add(time.Minute))
	require.NoError(t, err)
	err = s.UpdateDonation(ctx, second)
	require.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, int64(0), second.Version, "losing write keeps its version")

	stored, err := s.GetDonation(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "expired", *stored.RejectionReason)
}

// Two admins confirm the same donation with different homes at the same time.
// Exactly one write wins; the other observes ErrConflict.
func testConcurrentConfirm(t *testing.T, s store.Store) {
	ctx := context.Background()

	donor := NewDonor("Ruwan")
	homeA := NewHome("Home A", 40, &geo.Coordinates{Latitude: 7, Longitude: 80})
	homeB := NewHome("Home B", 40, &geo.Coordinates{Latitude: 7.1, Longitude: 80.1})
	require.NoError(t, s.CreateDonor(ctx, donor))
	require.NoError(t, s.CreateHome(ctx, homeA))
	require.NoError(t, s.CreateHome(ctx, homeB))
	d := NewFoodDonation(donor.ID, base)
	require.NoError(t, s.CreateDonation(ctx, d))

	copies := make([]*donation.Donation, 2)
	for i := range copies {
		c, err := s.GetDonation(ctx, d.ID)
		require.NoError(t, err)
		copies[i] = c
	}

	admin := donation.Actor{Role: donation.RoleAdmin, ID: uuid.New()}
	homes := []uuid.UUID{homeA.ID, homeB.ID}
	errs := make([]error, 2)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)
	for i := range copies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if _, err := donation.ConfirmMatch(copies[i], admin, homes[i], base.Add(time.Minute)); err != nil {
				errs[i] = err
				return
			}
			errs[i] = s.UpdateDonation(ctx, copies[i])
		}(i)
	}
	close(start)
	wg.Wait()

	var wins, conflicts int
	winner := -1
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
			winner = i
		case errors.Is(err, store.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, 1, conflicts)

	stored, err := s.GetDonation(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, homes[winner], *stored.MatchedHomeID)
	assert.Equal(t, int64(1), stored.Version)
}

func testNotifications(t *testing.T, s store.Store) {
	ctx := context.Background()

	recipient := uuid.New()
	donationID := uuid.New()
	older := &notify.Notification{
		ID:            uuid.New(),
		RecipientID:   recipient,
		RecipientKind: notify.RecipientDonor,
		DonationID:    donationID,
		Type:          notify.TypeDonationMatched,
		Message:       "matched",
		Details:       map[string]any{"homeName": "Kandy Home"},
		CreatedAt:     base,
	}
	newer := &notify.Notification{
		ID:            uuid.New(),
		RecipientID:   recipient,
		RecipientKind: notify.RecipientDonor,
		DonationID:    donationID,
		Type:          notify.TypeDonationAccepted,
		Message:       "accepted",
		CreatedAt:     base.Add(time.Hour),
	}
	foreign := &notify.Notification{
		ID:            uuid.New(),
		RecipientID:   uuid.New(),
		RecipientKind: notify.RecipientHome,
		DonationID:    donationID,
		Type:          notify.TypeNewDonationRequest,
		Message:       "request",
		CreatedAt:     base,
	}
	for _, n := range []*notify.Notification{older, newer, foreign} {
		require.NoError(t, s.CreateNotification(ctx, n))
	}

	list, err := s.ListNotifications(ctx, recipient)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, "Kandy Home", list[1].Details["homeName"])
	assert.False(t, list[0].Read)

	n, err := s.SetNotificationRead(ctx, older.ID, recipient, true)
	require.NoError(t, err)
	assert.True(t, n.Read)

	n, err = s.SetNotificationRead(ctx, older.ID, recipient, false)
	require.NoError(t, err)
	assert.False(t, n.Read)

	_, err = s.SetNotificationRead(ctx, foreign.ID, recipient, true)
	require.ErrorIs(t, err, store.ErrNotFound, "cannot toggle another actor's notification")
}
