package common

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/matching"
	"github.com/stacklok/donation-coordinator/internal/store"
)

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := map[string]string{
		"error": message,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// StatusFor maps a service error to its HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, donation.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, donation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, donation.ErrConflict), errors.Is(err, store.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, donation.ErrInvalidTransition),
		errors.Is(err, matching.ErrNotMatchable),
		errors.Is(err, matching.ErrDonorUnlocated):
		return http.StatusUnprocessableEntity
	case errors.Is(err, donation.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError writes err with the status StatusFor assigns it.
// Internal errors are logged and answered with a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		WriteErrorResponse(w, "internal server error", status)
		return
	}
	WriteErrorResponse(w, err.Error(), status)
}
