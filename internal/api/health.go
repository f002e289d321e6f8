package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/donation-coordinator/internal/api/common"
	"github.com/stacklok/donation-coordinator/internal/service"
	"github.com/stacklok/donation-coordinator/internal/versions"
)

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc service.Service) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, StatusResponse{Status: StatusHealthy}, http.StatusOK)
}

// readinessHandler handles readiness check requests
func readinessHandler(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			common.WriteErrorResponse(w, "Service not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, StatusResponse{Status: StatusReady}, http.StatusOK)
	}
}

// versionHandler reports the build of the running binary
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
