// Package donation holds the coordinator's entities and the donation state machine.
//
// Entities reference each other by ID only. A Donation changes status exclusively
// through the transition functions in this package, each of which returns the
// TransitionEvent that drives notification fan-out.
package donation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stacklok/donation-coordinator/internal/geo"
)

// Status is the lifecycle state of a donation
type Status string

// Donation statuses
const (
	StatusPending                   Status = "pending"
	StatusPendingAdminReview        Status = "pending_admin_review"
	StatusApproved                  Status = "approved"
	StatusMatched                   Status = "matched"
	StatusAwaitingRecipientApproval Status = "awaiting_recipient_approval"
	StatusCompleted                 Status = "completed"
	StatusRejected                  Status = "rejected"
)

// Statuses lists every status in lifecycle order
var Statuses = []Status{
	StatusPending,
	StatusPendingAdminReview,
	StatusApproved,
	StatusMatched,
	StatusAwaitingRecipientApproval,
	StatusCompleted,
	StatusRejected,
}

// Terminal reports whether no transition leaves s
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// HasMatchedHome reports whether a donation in status s must reference a home
func (s Status) HasMatchedHome() bool {
	switch s {
	case StatusMatched, StatusAwaitingRecipientApproval, StatusCompleted:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Category is the kind of item offered
type Category string

// Donation categories
const (
	CategoryFood    Category = "food"
	CategoryClothes Category = "clothes"
	CategoryBooks   Category = "books"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	return c == CategoryFood || c == CategoryClothes || c == CategoryBooks
}

// DeliveryMethod says who moves the goods
type DeliveryMethod string

// Delivery methods
const (
	DeliveryByDonor    DeliveryMethod = "donor_delivery"
	DeliveryHomePickup DeliveryMethod = "home_pickup"
)

// AccountStatus is the registration state of a donor or home
type AccountStatus string

// Account statuses
const (
	AccountPending  AccountStatus = "pending"
	AccountApproved AccountStatus = "approved"
	AccountRejected AccountStatus = "rejected"
)

// Role identifies the kind of actor performing an operation
type Role string

// Actor roles
const (
	RoleAdmin Role = "admin"
	RoleDonor Role = "donor"
	RoleHome  Role = "home"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDonor || r == RoleHome
}

// Actor is the authenticated caller of an operation
type Actor struct {
	Role Role      `json:"role"`
	ID   uuid.UUID `json:"id"`
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.Role, a.ID)
}

// Donation is one offered item
type Donation struct {
	ID                  uuid.UUID      `json:"id"`
	DonorID             uuid.UUID      `json:"donorId"`
	Category            Category       `json:"category"`
	FoodType            string         `json:"foodType,omitempty"`
	Quantity            float64        `json:"quantity,omitempty"`
	Unit                string         `json:"unit,omitempty"`
	Description         string         `json:"description,omitempty"`
	DeliveryMethod      DeliveryMethod `json:"deliveryMethod"`
	PreferredDeliveryAt time.Time      `json:"preferredDeliveryAt"`
	ExpiresAt           *time.Time     `json:"expiresAt,omitempty"`
	Status              Status         `json:"status"`
	MatchedHomeID       *uuid.UUID     `json:"matchedHomeId,omitempty"`
	RejectionReason     *string        `json:"rejectionReason,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	// Version increments on every persisted change and guards concurrent transitions
	Version int64 `json:"version"`
}

// Label is the human-readable description used in notification texts,
// e.g. "36 kg of rice" or "clothes".
func (d *Donation) Label() string {
	if d.Category == CategoryFood {
		return fmt.Sprintf("%s %s of %s", formatQuantity(d.Quantity), d.Unit, d.FoodType)
	}
	return string(d.Category)
}

// CheckInvariants verifies the matched-home reference agrees with the status
func (d *Donation) CheckInvariants() error {
	if !d.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, d.Status)
	}
	if d.Status.HasMatchedHome() != (d.MatchedHomeID != nil) {
		return fmt.Errorf("%w: status %q with matched home %v", ErrInvalidInput, d.Status, d.MatchedHomeID)
	}
	return nil
}

// Clone returns a deep copy of d
func (d *Donation) Clone() *Donation {
	c := *d
	if d.ExpiresAt != nil {
		t := *d.ExpiresAt
		c.ExpiresAt = &t
	}
	if d.MatchedHomeID != nil {
		id := *d.MatchedHomeID
		c.MatchedHomeID = &id
	}
	if d.RejectionReason != nil {
		r := *d.RejectionReason
		c.RejectionReason = &r
	}
	return &c
}

// Donor is a registered giver
type Donor struct {
	ID          uuid.UUID        `json:"id"`
	FullName    string           `json:"fullName"`
	Email       string           `json:"email"`
	PhoneNumber string           `json:"phoneNumber"`
	Address     string           `json:"address"`
	Location    *geo.Coordinates `json:"location,omitempty"`
	Status      AccountStatus    `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Home is a registered receiving care home
type Home struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	PhoneNumber   string           `json:"phoneNumber"`
	Address       string           `json:"address"`
	ContactPerson string           `json:"contactPerson,omitempty"`
	Capacity      int              `json:"capacity"`
	SpecialNeeds  string           `json:"specialNeeds,omitempty"`
	Location      *geo.Coordinates `json:"location,omitempty"`
	Status        AccountStatus    `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// Draft carries the donor-supplied fields of a new donation
type Draft struct {
	Category            Category
	FoodType            string
	Quantity            float64
	Unit                string
	Description         string
	DeliveryMethod      DeliveryMethod
	PreferredDeliveryAt time.Time
	ExpiresAt           *time.Time
}

// New validates a draft and returns the donation in its initial status:
// pending for food, pending_admin_review for everything else.
func New(donorID uuid.UUID, draft Draft, now time.Time) (*Donation, error) {
	if donorID == uuid.Nil {
		return nil, fmt.Errorf("%w: donor is required", ErrInvalidInput)
	}
	if !draft.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, draft.Category)
	}
	if draft.DeliveryMethod != DeliveryByDonor && draft.DeliveryMethod != DeliveryHomePickup {
		return nil, fmt.Errorf("%w: unknown delivery method %q", ErrInvalidInput, draft.DeliveryMethod)
	}
	if draft.PreferredDeliveryAt.IsZero() {
		return nil, fmt.Errorf("%w: preferred delivery time is required", ErrInvalidInput)
	}

	d := &Donation{
		ID:                  uuid.New(),
		DonorID:             donorID,
		Category:            draft.Category,
		Description:         strings.TrimSpace(draft.Description),
		DeliveryMethod:      draft.DeliveryMethod,
		PreferredDeliveryAt: draft.PreferredDeliveryAt.UTC(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if draft.Category == CategoryFood {
		switch {
		case strings.TrimSpace(draft.FoodType) == "":
			return nil, fmt.Errorf("%w: food type is required", ErrInvalidInput)
		case draft.Quantity <= 0:
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		case strings.TrimSpace(draft.Unit) == "":
			return nil, fmt.Errorf("%w: unit is required", ErrInvalidInput)
		case draft.ExpiresAt == nil:
			return nil, fmt.Errorf("%w: expiry is required for food", ErrInvalidInput)
		}
		expires := draft.ExpiresAt.UTC()
		d.FoodType = strings.TrimSpace(draft.FoodType)
		d.Quantity = draft.Quantity
		d.Unit = strings.TrimSpace(draft.Unit)
		d.ExpiresAt = &expires
		d.Status = StatusPending
		return d, nil
	}

	if draft.Quantity != 0 || draft.FoodType != "" || draft.ExpiresAt != nil {
		return nil, fmt.Errorf("%w: food fields set on a %s donation", ErrInvalidInput, draft.Category)
	}
	d.Status = StatusPendingAdminReview
	return d, nil
}

func formatQuantity(q float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", q), "0"), ".")
}
