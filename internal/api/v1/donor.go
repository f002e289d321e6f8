package v1

import (
	"net/http"
	"time"

	"github.com/stacklok/donation-coordinator/internal/api/common"
	"github.com/stacklok/donation-coordinator/internal/donation"
)

// createDonationRequest is the body of POST /v1/donor/donations
type createDonationRequest struct {
	Category            string     `json:"category" validate:"required,oneof=food clothes books"`
	FoodType            string     `json:"foodType" validate:"max=200"`
	Quantity            float64    `json:"quantity" validate:"gte=0"`
	Unit                string     `json:"unit" validate:"max=50"`
	Description         string     `json:"description" validate:"max=2000"`
	DeliveryMethod      string     `json:"deliveryMethod" validate:"required,oneof=donor_delivery home_pickup"`
	PreferredDeliveryAt time.Time  `json:"preferredDeliveryAt" validate:"required"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
}

func (req *createDonationRequest) draft() donation.Draft {
	return donation.Draft{
		Category:            donation.Category(req.Category),
		FoodType:            req.FoodType,
		Quantity:            req.Quantity,
		Unit:                req.Unit,
		Description:         req.Description,
		DeliveryMethod:      donation.DeliveryMethod(req.DeliveryMethod),
		PreferredDeliveryAt: req.PreferredDeliveryAt,
		ExpiresAt:           req.ExpiresAt,
	}
}

// updateLocationRequest is the body of both location routes
type updateLocationRequest struct {
	Address string `json:"address" validate:"required,max=500"`
}

// createDonation handles POST /v1/donor/donations
func (routes *Routes) createDonation(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	var req createDonationRequest
	if !routes.decode(w, r, &req, false) {
		return
	}

	d, err := routes.service.CreateDonation(r.Context(), actor, req.draft())
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, d, http.StatusCreated)
}

// listDonorDonations handles GET /v1/donor/donations
func (routes *Routes) listDonorDonations(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	opts, err := donationListOptions(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	views, err := routes.service.ListDonorDonations(r.Context(), actor, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, views, http.StatusOK)
}

func (routes *Routes) donorSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	summary, err := routes.service.DonorSummary(r.Context(), actor)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, summary, http.StatusOK)
}

func (routes *Routes) updateDonorLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := routes.actor(w, r)
	if !ok {
		return
	}
	var req updateLocationRequest
	if !routes.decode(w, r, &req, false) {
		return
	}

	donor, err := routes.service.UpdateDonorLocation(r.Context(), actor, req.Address)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, donor, http.StatusOK)
}
