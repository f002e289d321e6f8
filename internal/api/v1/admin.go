package v1

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/stacklok/donation-coordinator/internal/api/common"
)

// confirmMatchRequest is the body of PUT /v1/admin/donations/{id}/match
type confirmMatchRequest struct {
	HomeID string `json:"homeId" validate:"required,uuid"`
}

// approveDonationRequest is the optional body of PUT /v1/admin/donations/{id}/approve
type approveDonationRequest struct {
	HomeID *string `json:"homeId,omitempty" validate:"omitempty,uuid"`
}

// rejectDonationRequest is the body of both reject routes
type rejectDonationRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// listPendingDonations handles GET /v1/admin/donations/pending
func (routes *Routes) listPendingDonations(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	views, err := routes.service.ListPendingDonations(r.Context(), actor)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, views, http.StatusOK)
}

// listPendingReview handles GET /v1/admin/donations/review
func (routes *Routes) listPendingReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	views, err := routes.service.ListPendingReview(r.Context(), actor)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, views, http.StatusOK)
}

// runMatchingSession handles POST /v1/admin/donations/{id}/matching-sessions
func (routes *Routes) runMatchingSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	id, ok := routes.idParam(w, r)
	if !ok {
		return
	}
	session, err := routes.service.RunMatchingSession(r.Context(), actor, id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, session, http.StatusOK)
}

// nearestHomes handles GET /v1/admin/donations/{id}/nearest-homes
func (routes *Routes) nearestHomes(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	id, ok := routes.idParam(w, r)
	if !ok {
		return
	}
	ranking, err := routes.service.NearestHomes(r.Context(), actor, id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, ranking, http.StatusOK)
}

// confirmMatch handles PUT /v1/admin/donations/{id}/match.
//
// A confirm that races another write to the same donation gets 409. A confirm
// issued after an earlier one committed gets 422, since the donation is no longer
// matchable. Either way the caller re-reads GET /v1/admin/donations/{id} before retrying.
func (routes *Routes) confirmMatch(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	id, ok := routes.idParam(w, r)
	if !ok {
		return
	}
	var req confirmMatchRequest
	if !routes.decode(w, r, &req, false) {
		return
	}

	confirmation, err := routes.service.ConfirmMatch(r.Context(), actor, id, uuid.MustParse(req.HomeID))
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, confirmation, http.StatusOK)
}

// approveDonation handles PUT /v1/admin/donations/{id}/approve
func (routes *Routes) approveDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	id, ok := routes.idParam(w, r)
	if !ok {
		return
	}
	var req approveDonationRequest
	if !routes.decode(w, r, &req, true) {
		return
	}

	var homeID *uuid.UUID
	if req.HomeID != nil {
		parsed := uuid.MustParse(*req.HomeID)
		homeID = &parsed
	}

	d, err := routes.service.ApproveDonation(r.Context(), actor, id, homeID)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, d, http.StatusOK)
}

// rejectDonation handles PUT /v1/admin/donations/{id}/reject and
// POST /v1/home/donations/{id}/reject. The service decides what the caller may reject.
func (routes *Routes) rejectDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	id, ok := routes.idParam(w, r)
	if !ok {
		return
	}
	var req rejectDonationRequest
	if !routes.decode(w, r, &req, true) {
		return
	}

	d, err := routes.service.RejectDonation(r.Context(), actor, id, req.Reason)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, d, http.StatusOK)
}

// stats handles GET /v1/admin/stats
func (routes *Routes) stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	stats, err := routes.service.Stats(r.Context(), actor)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, stats, http.StatusOK)
}
