// Package notify turns donation transitions into per-actor notifications.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// RecipientKind is the kind of actor a notification belongs to
type RecipientKind string

// Recipient kinds
const (
	RecipientDonor RecipientKind = "donor"
	RecipientHome  RecipientKind = "home"
	RecipientAdmin RecipientKind = "admin"
)

// Type identifies the event a notification reports
type Type string

// Notification types
const (
	TypeDonationMatched         Type = "donation_matched"
	TypeNewDonationRequest      Type = "new_donation_request"
	TypeNonFoodApproved         Type = "non_food_donation_approved"
	TypeNewNonFoodMatch         Type = "new_non_food_donation_match"
	TypeNonFoodRejected         Type = "non_food_donation_rejected"
	TypeDonationRejected        Type = "donation_rejected"
	TypeDonationRejectedByAdmin Type = "donation_rejected_by_admin"
	TypeDonationAccepted        Type = "donation_accepted"
)

// Notification is a message owned by one actor. Only Read ever changes.
type Notification struct {
	ID            uuid.UUID      `json:"id"`
	RecipientID   uuid.UUID      `json:"recipientId"`
	RecipientKind RecipientKind  `json:"recipientKind"`
	DonationID    uuid.UUID      `json:"donationId"`
	Type          Type           `json:"type"`
	Message       string         `json:"message"`
	Details       map[string]any `json:"details,omitempty"`
	Read          bool           `json:"read"`
	CreatedAt     time.Time      `json:"createdAt"`
}
