package donation

import "errors"

var (
	// ErrInvalidTransition is returned when a transition is not legal from the donation's current status
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden is returned when the actor may not perform the transition
	ErrForbidden = errors.New("actor not allowed")
	// ErrInvalidInput is returned when a request is missing or carries invalid data
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a donation changed since it was read
	ErrConflict = errors.New("donation was modified concurrently")
)
