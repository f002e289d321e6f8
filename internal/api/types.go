// Package api provides the REST API server for the donation coordinator.
package api

// Probe statuses reported by /health and /readiness
const (
	StatusHealthy = "healthy"
	StatusReady   = "ready"
)

// StatusResponse is the body of the health and readiness endpoints
type StatusResponse struct {
	Status string `json:"status"`
}
