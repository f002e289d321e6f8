package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	v1 "github.com/stacklok/donation-coordinator/internal/api/v1"
	"github.com/stacklok/donation-coordinator/internal/auth"
	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/matching"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/service"
	"github.com/stacklok/donation-coordinator/internal/service/mocks"
)

var (
	admin = donation.Actor{Role: donation.RoleAdmin, ID: uuid.MustParse("6f1c2a9e-0d4b-4c1e-9a51-1f6e3b2d7c01")}
	donor = donation.Actor{Role: donation.RoleDonor, ID: uuid.MustParse("0b7e4d1a-3c2f-4e8a-b9d6-5a1c7e2f9b02")}
	home  = donation.Actor{Role: donation.RoleHome, ID: uuid.MustParse("9a3d5e7f-1b2c-4d6e-8f0a-2c4e6a8b0d03")}
)

// serve runs one request through the v1 router as actor; a nil actor sends none
func serve(t *testing.T, svc service.Service, actor *donation.Actor, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := v1.Router(svc)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor != nil {
			r = r.WithContext(auth.WithActor(r.Context(), *actor))
		}
		router.ServeHTTP(w, r)
	})

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func TestRoutes_RequireActor(t *testing.T) {
	t.Parallel()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/admin/donations/pending"},
		{http.MethodPost, "/admin/donations/" + uuid.NewString() + "/matching-sessions"},
		{http.MethodGet, "/admin/stats"},
		{http.MethodPost, "/donor/donations"},
		{http.MethodGet, "/home/upcoming"},
		{http.MethodGet, "/notifications"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			rr := serve(t, mocks.NewMockService(ctrl), nil, rt.method, rt.path, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "authentication required", errorBody(t, rr))
		})
	}
}

func TestRoutes_AdminListings(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	view := &service.DonationView{
		Donation: &donation.Donation{ID: uuid.New(), Category: donation.CategoryFood, Status: donation.StatusPending},
		Donor:    &service.Party{ID: donor.ID, Name: "Nimal Perera"},
	}
	svc.EXPECT().ListPendingDonations(gomock.Any(), admin).Return([]*service.DonationView{view}, nil)
	svc.EXPECT().ListPendingReview(gomock.Any(), admin).Return([]*service.DonationView{}, nil)

	rr := serve(t, svc, &admin, http.MethodGet, "/admin/donations/pending", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, view.ID.String(), got[0]["id"])
	assert.Equal(t, "Nimal Perera", got[0]["donor"].(map[string]any)["name"])

	rr = serve(t, svc, &admin, http.MethodGet, "/admin/donations/review", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestRoutes_RunMatchingSession(t *testing.T) {
	t.Parallel()

	donationID := uuid.New()

	tests := []struct {
		name       string
		path       string
		setup      func(*mocks.MockService)
		wantStatus int
	}{
		{
			name: "session returned",
			path: "/admin/donations/" + donationID.String() + "/matching-sessions",
			setup: func(m *mocks.MockService) {
				m.EXPECT().RunMatchingSession(gomock.Any(), admin, donationID).Return(&matching.Session{
					DonationID: donationID,
					Matches:    []matching.Candidate{{HomeName: "Kandy Children's Home", DistanceKM: 94.12}},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed id",
			path:       "/admin/donations/not-a-uuid/matching-sessions",
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "donor without location",
			path: "/admin/donations/" + donationID.String() + "/matching-sessions",
			setup: func(m *mocks.MockService) {
				m.EXPECT().RunMatchingSession(gomock.Any(), admin, donationID).Return(nil, matching.ErrDonorUnlocated)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "completed donation",
			path: "/admin/donations/" + donationID.String() + "/matching-sessions",
			setup: func(m *mocks.MockService) {
				m.EXPECT().RunMatchingSession(gomock.Any(), admin, donationID).
					Return(nil, fmt.Errorf("%w: %w: status is completed", matching.ErrNotMatchable, donation.ErrInvalidTransition))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown donation",
			path: "/admin/donations/" + donationID.String() + "/matching-sessions",
			setup: func(m *mocks.MockService) {
				m.EXPECT().RunMatchingSession(gomock.Any(), admin, donationID).
					Return(nil, fmt.Errorf("donation %s: %w", donationID, donation.ErrNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rr := serve(t, svc, &admin, http.MethodPost, tt.path, "")
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var session matching.Session
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
				assert.Equal(t, donationID, session.DonationID)
				require.Len(t, session.Matches, 1)
				assert.InDelta(t, 94.12, session.Matches[0].DistanceKM, 1e-9)
			}
		})
	}
}

func TestRoutes_RunMatchingSession_UsesMatchTimeout(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	donationID := uuid.New()
	var deadline time.Duration
	svc.EXPECT().RunMatchingSession(gomock.Any(), admin, donationID).DoAndReturn(
		func(ctx context.Context, _ donation.Actor, id uuid.UUID) (*matching.Session, error) {
			d, ok := ctx.Deadline()
			require.True(t, ok)
			deadline = time.Until(d)
			return &matching.Session{DonationID: id}, nil
		})

	router := v1.Router(svc, v1.WithRequestTimeout(time.Second), v1.WithMatchTimeout(time.Hour))
	req := httptest.NewRequest(http.MethodPost, "/admin/donations/"+donationID.String()+"/matching-sessions", nil)
	req = req.WithContext(auth.WithActor(req.Context(), admin))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Greater(t, deadline, time.Minute)
}

func TestRoutes_NearestHomes(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	donationID := uuid.New()
	distance := 12.34
	svc.EXPECT().NearestHomes(gomock.Any(), admin, donationID).Return(&service.NearestHomes{
		DonationID: donationID,
		Homes:      []service.NearestHome{{Name: "Negombo Home", DistanceKM: &distance}},
	}, nil)

	rr := serve(t, svc, &admin, http.MethodGet, "/admin/donations/"+donationID.String()+"/nearest-homes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"distanceKm":12.34`)
}

func TestRoutes_ConfirmMatch(t *testing.T) {
	t.Parallel()

	donationID := uuid.New()
	homeID := uuid.New()
	path := "/admin/donations/" + donationID.String() + "/match"

	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockService)
		wantStatus int
		wantError  string
	}{
		{
			name: "confirmed",
			body: fmt.Sprintf(`{"homeId":%q}`, homeID),
			setup: func(m *mocks.MockService) {
				m.EXPECT().ConfirmMatch(gomock.Any(), admin, donationID, homeID).Return(&matching.Confirmation{
					Donation: &donation.Donation{ID: donationID, Status: donation.StatusAwaitingRecipientApproval, MatchedHomeID: &homeID},
					Notifications: []notify.Notification{
						{Type: notify.TypeDonationMatched},
						{Type: notify.TypeNewDonationRequest},
					},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing home id",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "HomeID failed required",
		},
		{
			name:       "home id not a uuid",
			body:       `{"homeId":"kandy"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "HomeID failed uuid",
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "malformed json",
			body:       `{"homeId":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name: "lost the race",
			body: fmt.Sprintf(`{"homeId":%q}`, homeID),
			setup: func(m *mocks.MockService) {
				m.EXPECT().ConfirmMatch(gomock.Any(), admin, donationID, homeID).Return(nil, donation.ErrConflict)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "already awaiting approval",
			body: fmt.Sprintf(`{"homeId":%q}`, homeID),
			setup: func(m *mocks.MockService) {
				m.EXPECT().ConfirmMatch(gomock.Any(), admin, donationID, homeID).
					Return(nil, fmt.Errorf("%w: awaiting_approval -> awaiting_approval", donation.ErrInvalidTransition))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "store failure hidden",
			body: fmt.Sprintf(`{"homeId":%q}`, homeID),
			setup: func(m *mocks.MockService) {
				m.EXPECT().ConfirmMatch(gomock.Any(), admin, donationID, homeID).Return(nil, fmt.Errorf("dial tcp: refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rr := serve(t, svc, &admin, http.MethodPut, path, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				assert.Contains(t, errorBody(t, rr), tt.wantError)
			}
			if tt.wantStatus == http.StatusOK {
				var got matching.Confirmation
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, donation.StatusAwaitingRecipientApproval, got.Donation.Status)
				assert.Len(t, got.Notifications, 2)
			}
		})
	}
}

func TestRoutes_ApproveDonation(t *testing.T) {
	t.Parallel()

	donationID := uuid.New()
	homeID := uuid.New()
	path := "/admin/donations/" + donationID.String() + "/approve"

	t.Run("without home", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().ApproveDonation(gomock.Any(), admin, donationID, (*uuid.UUID)(nil)).
			Return(&donation.Donation{ID: donationID, Status: donation.StatusApproved}, nil)

		rr := serve(t, svc, &admin, http.MethodPut, path, "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("with home", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().ApproveDonation(gomock.Any(), admin, donationID, &homeID).
			Return(&donation.Donation{ID: donationID, Status: donation.StatusMatched, MatchedHomeID: &homeID}, nil)

		rr := serve(t, svc, &admin, http.MethodPut, path, fmt.Sprintf(`{"homeId":%q}`, homeID))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"matched"`)
	})

	t.Run("invalid home", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		rr := serve(t, mocks.NewMockService(ctrl), &admin, http.MethodPut, path, `{"homeId":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("food donation", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().ApproveDonation(gomock.Any(), admin, donationID, (*uuid.UUID)(nil)).
			Return(nil, fmt.Errorf("%w: pending -> approved", donation.ErrInvalidTransition))

		rr := serve(t, svc, &admin, http.MethodPut, path, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestRoutes_RejectDonation(t *testing.T) {
	t.Parallel()

	donationID := uuid.New()

	tests := []struct {
		name       string
		actor      donation.Actor
		method     string
		path       string
		body       string
		wantReason string
		err        error
		wantStatus int
	}{
		{
			name:       "admin with reason",
			actor:      admin,
			method:     http.MethodPut,
			path:       "/admin/donations/" + donationID.String() + "/reject",
			body:       `{"reason":"expired"}`,
			wantReason: "expired",
			wantStatus: http.StatusOK,
		},
		{
			name:       "home without body",
			actor:      home,
			method:     http.MethodPost,
			path:       "/home/donations/" + donationID.String() + "/reject",
			wantStatus: http.StatusOK,
		},
		{
			name:       "home with reason",
			actor:      home,
			method:     http.MethodPost,
			path:       "/home/donations/" + donationID.String() + "/reject",
			body:       `{"reason":"capacity full"}`,
			wantReason: "capacity full",
			wantStatus: http.StatusOK,
		},
		{
			name:       "home not matched",
			actor:      home,
			method:     http.MethodPost,
			path:       "/home/donations/" + donationID.String() + "/reject",
			err:        fmt.Errorf("%w: donation is not matched with this home", donation.ErrForbidden),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)

			var result *donation.Donation
			if tt.err == nil {
				result = &donation.Donation{ID: donationID, Status: donation.StatusRejected}
				if tt.wantReason != "" {
					result.RejectionReason = &tt.wantReason
				}
			}
			svc.EXPECT().RejectDonation(gomock.Any(), tt.actor, donationID, tt.wantReason).Return(result, tt.err)

			rr := serve(t, svc, &tt.actor, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRoutes_Stats(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().Stats(gomock.Any(), donor).Return(nil, fmt.Errorf("%w: admin only", donation.ErrForbidden))

	rr := serve(t, svc, &donor, http.MethodGet, "/admin/stats", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRoutes_CreateDonation(t *testing.T) {
	t.Parallel()

	preferred := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	expires := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockService)
		wantStatus int
		wantError  string
	}{
		{
			name: "food donation",
			body: `{"category":"food","foodType":"rice","quantity":36,"unit":"kg",
				"deliveryMethod":"donor_delivery","preferredDeliveryAt":"2026-11-02T09:00:00Z","expiresAt":"2026-11-03T00:00:00Z"}`,
			setup: func(m *mocks.MockService) {
				m.EXPECT().CreateDonation(gomock.Any(), donor, donation.Draft{
					Category:            donation.CategoryFood,
					FoodType:            "rice",
					Quantity:            36,
					Unit:                "kg",
					DeliveryMethod:      donation.DeliveryByDonor,
					PreferredDeliveryAt: preferred,
					ExpiresAt:           &expires,
				}).Return(&donation.Donation{ID: uuid.New(), Status: donation.StatusPending}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown category",
			body:       `{"category":"toys","deliveryMethod":"home_pickup","preferredDeliveryAt":"2026-11-02T09:00:00Z"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Category failed oneof",
		},
		{
			name:       "missing delivery time",
			body:       `{"category":"books","deliveryMethod":"home_pickup"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "PreferredDeliveryAt failed required",
		},
		{
			name:       "negative quantity",
			body:       `{"category":"books","quantity":-1,"deliveryMethod":"home_pickup","preferredDeliveryAt":"2026-11-02T09:00:00Z"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Quantity failed gte=0",
		},
		{
			name: "donor not approved",
			body: `{"category":"books","description":"40 story books","deliveryMethod":"home_pickup","preferredDeliveryAt":"2026-11-02T09:00:00Z"}`,
			setup: func(m *mocks.MockService) {
				m.EXPECT().CreateDonation(gomock.Any(), donor, gomock.Any()).
					Return(nil, fmt.Errorf("%w: %w", donation.ErrForbidden, service.ErrAccountNotApproved))
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "food without expiry",
			body: `{"category":"food","foodType":"rice","quantity":5,"unit":"kg","deliveryMethod":"home_pickup","preferredDeliveryAt":"2026-11-02T09:00:00Z"}`,
			setup: func(m *mocks.MockService) {
				m.EXPECT().CreateDonation(gomock.Any(), donor, gomock.Any()).
					Return(nil, fmt.Errorf("%w: expiry is required for food", donation.ErrInvalidInput))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "expiry is required for food",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rr := serve(t, svc, &donor, http.MethodPost, "/donor/donations", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				assert.Contains(t, errorBody(t, rr), tt.wantError)
			}
		})
	}
}

func TestRoutes_ListDonorDonations_Options(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	var applied service.ListDonationsOptions
	svc.EXPECT().ListDonorDonations(gomock.Any(), donor, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ donation.Actor, opts ...service.Option[service.ListDonationsOptions]) ([]*service.DonationView, error) {
			for _, opt := range opts {
				require.NoError(t, opt(&applied))
			}
			return []*service.DonationView{}, nil
		})

	rr := serve(t, svc, &donor, http.MethodGet, "/donor/donations?status=pending,matched&status=completed&limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []donation.Status{donation.StatusPending, donation.StatusMatched, donation.StatusCompleted}, applied.Statuses)
	assert.Equal(t, 5, applied.Limit)
}

func TestRoutes_ListDonations_BadLimit(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	rr := serve(t, svc, &donor, http.MethodGet, "/donor/donations?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(t, svc, &home, http.MethodGet, "/home/donations?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoutes_DonorAndHomeDashboards(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().DonorSummary(gomock.Any(), donor).Return(&service.DonorSummary{TotalDonations: 4, ActiveDonations: 2}, nil)
	svc.EXPECT().HomeSummary(gomock.Any(), home).Return(&service.HomeSummary{AwaitingApproval: 1}, nil)
	svc.EXPECT().UpcomingDeliveries(gomock.Any(), home).Return([]*service.DonationView{}, nil)
	svc.EXPECT().ListHomeDonations(gomock.Any(), home).Return([]*service.DonationView{}, nil)

	rr := serve(t, svc, &donor, http.MethodGet, "/donor/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"totalDonationsMade":4,"activeDonations":2,"pendingMatches":0,"successfulMatches":0}`, rr.Body.String())

	rr = serve(t, svc, &home, http.MethodGet, "/home/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"activeDonations":1`)

	rr = serve(t, svc, &home, http.MethodGet, "/home/upcoming", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(t, svc, &home, http.MethodGet, "/home/donations", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_AcceptDonation(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	donationID := uuid.New()
	svc.EXPECT().AcceptDonation(gomock.Any(), home, donationID).
		Return(&donation.Donation{ID: donationID, Status: donation.StatusCompleted}, nil)
	svc.EXPECT().AcceptDonation(gomock.Any(), donor, donationID).
		Return(nil, fmt.Errorf("%w: only the matched home can accept a donation", donation.ErrForbidden))

	rr := serve(t, svc, &home, http.MethodPost, "/home/donations/"+donationID.String()+"/accept", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(t, svc, &donor, http.MethodPost, "/home/donations/"+donationID.String()+"/accept", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRoutes_GetDonation(t *testing.T) {
	t.Parallel()

	donationID := uuid.New()
	view := &service.DonationView{
		Donation: &donation.Donation{ID: donationID, DonorID: donor.ID, Status: donation.StatusPending, Version: 4},
	}

	tests := []struct {
		name       string
		actor      donation.Actor
		path       string
		setupMock  func(*mocks.MockService)
		wantStatus int
		wantError  string
	}{
		{
			name:  "admin reads any donation",
			actor: admin,
			path:  "/admin/donations/" + donationID.String(),
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().GetDonation(gomock.Any(), admin, donationID).Return(view, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "donor reads own donation",
			actor: donor,
			path:  "/donor/donations/" + donationID.String(),
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().GetDonation(gomock.Any(), donor, donationID).Return(view, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "home not matched with the donation",
			actor: home,
			path:  "/home/donations/" + donationID.String(),
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().GetDonation(gomock.Any(), home, donationID).
					Return(nil, fmt.Errorf("%w: donation is not visible to this home", donation.ErrForbidden))
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:  "unknown donation",
			actor: admin,
			path:  "/admin/donations/" + donationID.String(),
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().GetDonation(gomock.Any(), admin, donationID).Return(nil, donation.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id",
			actor:      donor,
			path:       "/donor/donations/not-a-uuid",
			setupMock:  func(*mocks.MockService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "id must be a UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			tt.setupMock(svc)

			rr := serve(t, svc, &tt.actor, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorBody(t, rr))
			}
			if tt.wantStatus == http.StatusOK {
				var got service.DonationView
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, donationID, got.ID)
				assert.Equal(t, int64(4), got.Version)
			}
		})
	}
}

func TestRoutes_UpdateLocation(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().UpdateDonorLocation(gomock.Any(), donor, "12 Galle Road, Colombo").
		Return(&donation.Donor{ID: donor.ID, Address: "12 Galle Road, Colombo"}, nil)
	svc.EXPECT().UpdateHomeLocation(gomock.Any(), home, "Peradeniya Road, Kandy").
		Return(&donation.Home{ID: home.ID, Address: "Peradeniya Road, Kandy"}, nil)

	rr := serve(t, svc, &donor, http.MethodPut, "/donor/location", `{"address":"12 Galle Road, Colombo"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(t, svc, &home, http.MethodPut, "/home/location", `{"address":"Peradeniya Road, Kandy"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(t, svc, &donor, http.MethodPut, "/donor/location", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, errorBody(t, rr), "Address failed required")
}

func TestRoutes_Notifications(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	notificationID := uuid.New()
	var applied service.ListNotificationsOptions
	svc.EXPECT().ListNotifications(gomock.Any(), home, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ donation.Actor, opts ...service.Option[service.ListNotificationsOptions]) ([]*notify.Notification, error) {
			for _, opt := range opts {
				require.NoError(t, opt(&applied))
			}
			return []*notify.Notification{{ID: notificationID, Message: "New Donation Request from Nimal Perera"}}, nil
		})
	svc.EXPECT().MarkRead(gomock.Any(), home, notificationID).Return(&notify.Notification{ID: notificationID, Read: true}, nil)
	svc.EXPECT().MarkUnread(gomock.Any(), home, notificationID).Return(&notify.Notification{ID: notificationID}, nil)

	rr := serve(t, svc, &home, http.MethodGet, "/notifications?unread=true&limit=20", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, applied.UnreadOnly)
	assert.Equal(t, 20, applied.Limit)
	assert.Contains(t, rr.Body.String(), "New Donation Request")

	rr = serve(t, svc, &home, http.MethodPut, "/notifications/"+notificationID.String()+"/read", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"read":true`)

	rr = serve(t, svc, &home, http.MethodDelete, "/notifications/"+notificationID.String()+"/read", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"read":false`)

	rr = serve(t, svc, &home, http.MethodGet, "/notifications?unread=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
