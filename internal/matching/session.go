// Package matching runs matching sessions for a donation: rank the approved
// homes by distance, ask the scoring service about each, and let an admin
// confirm one of the positive candidates.
package matching

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stacklok/donation-coordinator/internal/scoring"
)

var (
	// ErrNotMatchable is returned when the donation is not in a matchable status
	ErrNotMatchable = errors.New("donation cannot be matched")
	// ErrDonorUnlocated is returned when the donor has no resolved coordinates
	ErrDonorUnlocated = errors.New("donor has no resolved coordinates")
	// ErrHomeUnavailable is returned when confirming a home that is not approved
	ErrHomeUnavailable = errors.New("home is not available for matching")
)

// Candidate is one home considered during a session
type Candidate struct {
	HomeID   uuid.UUID `json:"homeId"`
	HomeName string    `json:"homeName"`
	Capacity int       `json:"capacity"`
	// DistanceKM is rounded to two decimals; zero for unscoreable homes
	DistanceKM float64         `json:"distanceKm"`
	Verdict    scoring.Verdict `json:"verdict"`
	// Detail is the model answer, or why the home was not scored
	Detail string `json:"detail,omitempty"`
}

// Session is the result of one matching run. Every approved home appears in
// exactly one of the four lists. Scored lists keep ascending distance order.
type Session struct {
	ID            uuid.UUID   `json:"id"`
	DonationID    uuid.UUID   `json:"donationId"`
	StartedAt     time.Time   `json:"startedAt"`
	FinishedAt    time.Time   `json:"finishedAt"`
	Matches       []Candidate `json:"matches"`
	Rejected      []Candidate `json:"rejected"`
	Indeterminate []Candidate `json:"indeterminate"`
	Unscoreable   []Candidate `json:"unscoreable"`
}

// outcomes counts candidates per list, keyed the way metrics label them
func (s *Session) outcomes() map[string]int {
	return map[string]int{
		"positive":      len(s.Matches),
		"negative":      len(s.Rejected),
		"indeterminate": len(s.Indeterminate),
		"unscoreable":   len(s.Unscoreable),
	}
}
