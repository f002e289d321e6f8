package v1

import (
	"net/http"

	"github.com/stacklok/donation-coordinator/internal/api/common"
)

// listHomeDonations handles GET /v1/home/donations
func (routes *Routes) listHomeDonations(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	opts, err := donationListOptions(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	views, err := routes.service.ListHomeDonations(r.Context(), actor, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, views, http.StatusOK)
}

// acceptDonation handles POST /v1/home/donations/{id}/accept. 409 and 422 follow confirmMatch.
func (routes *Routes) acceptDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	id, ok := routes.idParam(w, r)
	if !ok {
		return
	}
	d, err := routes.service.AcceptDonation(r.Context(), actor, id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, d, http.StatusOK)
}

func (routes *Routes) homeSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	summary, err := routes.service.HomeSummary(r.Context(), actor)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, summary, http.StatusOK)
}

func (routes *Routes) upcomingDeliveries(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	views, err := routes.service.UpcomingDeliveries(r.Context(), actor)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, views, http.StatusOK)
}

func (routes *Routes) updateHomeLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	var req updateLocationRequest
	if !routes.decode(w, r, &req, false) {
		return
	}

	home, err := routes.service.UpdateHomeLocation(r.Context(), actor, req.Address)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, home, http.StatusOK)
}
