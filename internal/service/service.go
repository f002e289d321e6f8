// Package service provides the business logic of the donation coordinator.
// Every operation takes the authenticated actor and enforces its role.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/geo"
	"github.com/stacklok/donation-coordinator/internal/matching"
	"github.com/stacklok/donation-coordinator/internal/notify"
)

var (
	// ErrAccountNotApproved is returned when a donor or home account is not approved yet
	ErrAccountNotApproved = errors.New("account is not approved")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go Service

// Service defines the operations exposed to administrators, donors and homes
type Service interface {
	// CheckReadiness checks if the service is ready to serve requests
	CheckReadiness(ctx context.Context) error

	// GetDonation returns one donation as currently stored. Admins read any donation,
	// donors their own and homes the donations matched with them.
	GetDonation(ctx context.Context, actor donation.Actor, donationID uuid.UUID) (*DonationView, error)

	// ListPendingDonations returns food donations waiting for a match
	ListPendingDonations(ctx context.Context, actor donation.Actor) ([]*DonationView, error)
	// ListPendingReview returns non-food donations waiting for admin review
	ListPendingReview(ctx context.Context, actor donation.Actor) ([]*DonationView, error)
	// RunMatchingSession ranks and scores the approved homes for a donation
	RunMatchingSession(ctx context.Context, actor donation.Actor, donationID uuid.UUID) (*matching.Session, error)
	// NearestHomes ranks the approved homes by distance without scoring them
	NearestHomes(ctx context.Context, actor donation.Actor, donationID uuid.UUID) (*NearestHomes, error)
	// ConfirmMatch offers a donation to a home
	ConfirmMatch(ctx context.Context, actor donation.Actor, donationID, homeID uuid.UUID) (*matching.Confirmation, error)
	// ApproveDonation admits a non-food donation, optionally matching it with a home
	ApproveDonation(ctx context.Context, actor donation.Actor, donationID uuid.UUID, homeID *uuid.UUID) (*donation.Donation, error)
	// RejectDonation rejects a donation as admin or as its matched home
	RejectDonation(ctx context.Context, actor donation.Actor, donationID uuid.UUID, reason string) (*donation.Donation, error)
	// Stats returns the admin dashboard counters
	Stats(ctx context.Context, actor donation.Actor) (*Stats, error)

	// CreateDonation records a new donation for the calling donor
	CreateDonation(ctx context.Context, actor donation.Actor, draft donation.Draft) (*donation.Donation, error)
	// ListDonorDonations returns the calling donor's donations, newest first
	ListDonorDonations(ctx context.Context, actor donation.Actor, opts ...Option[ListDonationsOptions]) ([]*DonationView, error)
	// DonorSummary returns the calling donor's dashboard counters
	DonorSummary(ctx context.Context, actor donation.Actor) (*DonorSummary, error)
	// UpdateDonorLocation changes the donor address and re-resolves its coordinates
	UpdateDonorLocation(ctx context.Context, actor donation.Actor, address string) (*donation.Donor, error)

	// AcceptDonation completes a donation on behalf of its matched home
	AcceptDonation(ctx context.Context, actor donation.Actor, donationID uuid.UUID) (*donation.Donation, error)
	// ListHomeDonations returns the donations matched with the calling home
	ListHomeDonations(ctx context.Context, actor donation.Actor, opts ...Option[ListDonationsOptions]) ([]*DonationView, error)
	// HomeSummary returns the calling home's dashboard counters
	HomeSummary(ctx context.Context, actor donation.Actor) (*HomeSummary, error)
	// UpcomingDeliveries returns the calling home's deliveries that are still ahead
	UpcomingDeliveries(ctx context.Context, actor donation.Actor) ([]*DonationView, error)
	// UpdateHomeLocation changes the home address and re-resolves its coordinates
	UpdateHomeLocation(ctx context.Context, actor donation.Actor, address string) (*donation.Home, error)

	// ListNotifications returns the caller's notifications, newest first
	ListNotifications(ctx context.Context, actor donation.Actor, opts ...Option[ListNotificationsOptions]) ([]*notify.Notification, error)
	// MarkRead marks one of the caller's notifications as read
	MarkRead(ctx context.Context, actor donation.Actor, notificationID uuid.UUID) (*notify.Notification, error)
	// MarkUnread marks one of the caller's notifications as unread
	MarkUnread(ctx context.Context, actor donation.Actor, notificationID uuid.UUID) (*notify.Notification, error)
}

// Party is the contact card of a donor or home attached to a donation view
type Party struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Address     string    `json:"address,omitempty"`
}

// DonationView is a donation with its donor and matched home resolved
type DonationView struct {
	*donation.Donation
	Donor *Party `json:"donor,omitempty"`
	Home  *Party `json:"home,omitempty"`
}

// NearestHome is one entry of a distance ranking
type NearestHome struct {
	HomeID     uuid.UUID        `json:"homeId"`
	Name       string           `json:"name"`
	Address    string           `json:"address"`
	Capacity   int              `json:"capacity"`
	Location   *geo.Coordinates `json:"location,omitempty"`
	DistanceKM *float64         `json:"distanceKm,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

// NearestHomes is the distance ranking for a donation
type NearestHomes struct {
	DonationID uuid.UUID `json:"donationId"`
	// Homes is sorted nearest first, distances rounded to two decimals
	Homes       []NearestHome `json:"homes"`
	Unscoreable []NearestHome `json:"unscoreable"`
}

// Stats are the admin dashboard counters, derived on demand
type Stats struct {
	ApprovedDonors     int `json:"approvedDonors"`
	ApprovedHomes      int `json:"approvedHomes"`
	CompletedDonations int `json:"completedDonations"`
	PendingApprovals   int `json:"pendingApprovals"`
}

// DonorSummary are the donor dashboard counters
type DonorSummary struct {
	TotalDonations    int `json:"totalDonationsMade"`
	ActiveDonations   int `json:"activeDonations"`
	PendingMatches    int `json:"pendingMatches"`
	SuccessfulMatches int `json:"successfulMatches"`
}

// HomeSummary are the home dashboard counters
type HomeSummary struct {
	TotalDonations      int `json:"totalDonations"`
	AwaitingApproval    int `json:"activeDonations"`
	UpcomingDeliveries  int `json:"upcomingDeliveries"`
	CompletedDeliveries int `json:"completedDeliveries"`
}

// Option is a function that sets an option for a list operation
type Option[T ListDonationsOptions | ListNotificationsOptions] func(*T) error

// ListDonationsOptions is the options for the donor and home donation listings
type ListDonationsOptions struct {
	Statuses []donation.Status
	Limit    int
}

// ListNotificationsOptions is the options for the ListNotifications operation
type ListNotificationsOptions struct {
	UnreadOnly bool
	Limit      int
}

// WithStatus restricts a donation listing to the given statuses
func WithStatus(statuses ...donation.Status) Option[ListDonationsOptions] {
	return func(o *ListDonationsOptions) error {
		for _, s := range statuses {
			if !s.Valid() {
				return fmt.Errorf("%w: invalid status: %s", donation.ErrInvalidInput, s)
			}
		}
		o.Statuses = append(o.Statuses, statuses...)
		return nil
	}
}

// WithUnreadOnly restricts a notification listing to unread notifications
func WithUnreadOnly() Option[ListNotificationsOptions] {
	return func(o *ListNotificationsOptions) error {
		o.UnreadOnly = true
		return nil
	}
}

// WithLimit caps the number of results of a list operation
func WithLimit[T ListDonationsOptions | ListNotificationsOptions](limit int) Option[T] {
	return func(o *T) error {
		if limit <= 0 {
			return fmt.Errorf("%w: invalid limit: %d", donation.ErrInvalidInput, limit)
		}
		switch o := any(o).(type) {
		case *ListDonationsOptions:
			o.Limit = limit
		case *ListNotificationsOptions:
			o.Limit = limit
		default:
			return fmt.Errorf("invalid option type: %T", o)
		}
		return nil
	}
}

func applyOptions[T ListDonationsOptions | ListNotificationsOptions](opts []Option[T]) (*T, error) {
	o := new(T)
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
