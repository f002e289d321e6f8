// Package v1 provides the REST API handlers for the donation coordinator.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stacklok/donation-coordinator/internal/api/common"
	"github.com/stacklok/donation-coordinator/internal/auth"
	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/service"
)

const (
	// DefaultRequestTimeout bounds every route except matching sessions
	DefaultRequestTimeout = 10 * time.Second
	// DefaultMatchTimeout bounds a matching session, which polls the scoring service per home
	DefaultMatchTimeout = 2 * time.Minute

	maxBodyBytes = 1 << 20
)

// RouterOption configures the v1 router
type RouterOption func(*routerConfig)

type routerConfig struct {
	requestTimeout time.Duration
	matchTimeout   time.Duration
}

// WithRequestTimeout sets the timeout of ordinary requests
func WithRequestTimeout(d time.Duration) RouterOption {
	return func(cfg *routerConfig) {
		if d > 0 {
			cfg.requestTimeout = d
		}
	}
}

// WithMatchTimeout sets the timeout of the matching session route
func WithMatchTimeout(d time.Duration) RouterOption {
	return func(cfg *routerConfig) {
		if d > 0 {
			cfg.matchTimeout = d
		}
	}
}

// Routes handles HTTP requests for the v1 API.
type Routes struct {
	service  service.Service
	validate *validator.Validate
}

// NewRoutes creates a new Routes instance with the given service.
func NewRoutes(svc service.Service) *Routes {
	return &Routes{
		service:  svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router creates and configures the HTTP router for the v1 API.
func Router(svc service.Service, opts ...RouterOption) http.Handler {
	cfg := &routerConfig{
		requestTimeout: DefaultRequestTimeout,
		matchTimeout:   DefaultMatchTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	routes := NewRoutes(svc)
	requestTimeout := middleware.Timeout(cfg.requestTimeout)
	r := chi.NewRouter()

	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.Timeout(cfg.matchTimeout)).
			Post("/donations/{id}/matching-sessions", routes.runMatchingSession)

		r.Group(func(r chi.Router) {
			r.Use(requestTimeout)
			r.Get("/donations/pending", routes.listPendingDonations)
			r.Get("/donations/review", routes.listPendingReview)
			r.Get("/donations/{id}", routes.getDonation)
			r.Get("/donations/{id}/nearest-homes", routes.nearestHomes)
			r.Put("/donations/{id}/match", routes.confirmMatch)
			r.Put("/donations/{id}/approve", routes.approveDonation)
			r.Put("/donations/{id}/reject", routes.rejectDonation)
			r.Get("/stats", routes.stats)
		})
	})

	r.Route("/donor", func(r chi.Router) {
		r.Use(requestTimeout)
		r.Post("/donations", routes.createDonation)
		r.Get("/donations", routes.listDonorDonations)
		r.Get("/donations/{id}", routes.getDonation)
		r.Get("/summary", routes.donorSummary)
		r.Put("/location", routes.updateDonorLocation)
	})

	r.Route("/home", func(r chi.Router) {
		r.Use(requestTimeout)
		r.Get("/donations", routes.listHomeDonations)
		r.Get("/donations/{id}", routes.getDonation)
		r.Post("/donations/{id}/accept", routes.acceptDonation)
		r.Post("/donations/{id}/reject", routes.rejectDonation)
		r.Get("/summary", routes.homeSummary)
		r.Get("/upcoming", routes.upcomingDeliveries)
		r.Put("/location", routes.updateHomeLocation)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Use(requestTimeout)
		r.Get("/", routes.listNotifications)
		r.Put("/{id}/read", routes.markRead)
		r.Delete("/{id}/read", routes.markUnread)
	})

	return r
}

// actor returns the authenticated caller, answering 401 when there is none
func (*Routes) actor(w http.ResponseWriter, r *http.Request) (donation.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		common.WriteErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return donation.Actor{}, false
	}
	return actor, true
}

// decode reads a JSON body into dst and validates it. An empty body is
// accepted when allowEmpty is set.
func (routes *Routes) decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if !errors.Is(err, io.EOF) || !allowEmpty {
			common.WriteErrorResponse(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return false
		}
	}

	if err := routes.validate.Struct(dst); err != nil {
		common.WriteErrorResponse(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return "Invalid request body: " + strings.Join(msgs, "; ")
}

func (*Routes) idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := common.GetUUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// parseLimit reads the optional "limit" query parameter
func parseLimit(r *http.Request) (int, bool, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, false, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, errors.New("invalid limit parameter: must be an integer")
	}
	return limit, true, nil
}

// donationListOptions turns "status" (repeated or comma separated) and "limit" into service options
func donationListOptions(r *http.Request) ([]service.Option[service.ListDonationsOptions], error) {
	var opts []service.Option[service.ListDonationsOptions]

	var statuses []donation.Status
	for _, v := range r.URL.Query()["status"] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, donation.Status(s))
			}
		}
	}
	if len(statuses) > 0 {
		opts = append(opts, service.WithStatus(statuses...))
	}

	limit, ok, err := parseLimit(r)
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, service.WithLimit[service.ListDonationsOptions](limit))
	}
	return opts, nil
}
