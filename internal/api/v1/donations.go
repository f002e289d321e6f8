package v1

import (
	"net/http"

	"github.com/stacklok/donation-coordinator/internal/api/common"
)

// getDonation handles GET /v1/{admin,donor,home}/donations/{id}. It returns the
// current version of a donation so a caller that lost a write can re-read it
// before retrying. 403 when the donation belongs to another donor or home.
func (routes *Routes) getDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	id, ok := routes.idParam(w, r)
	if !ok {
		return
	}
	view, err := routes.service.GetDonation(r.Context(), actor, id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, view, http.StatusOK)
}
