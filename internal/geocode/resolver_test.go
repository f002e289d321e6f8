package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/donation-coordinator/internal/httpclient"
	"github.com/stacklok/donation-coordinator/internal/httpclient/mocks"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewUnstartedServer(handler)
	srv.Config.SetKeepAlivesEnabled(false)
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

func TestLocationIQ_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantLat  float64
		wantLon  float64
		wantErr  error
		anyError bool
	}{
		{
			name:    "first result wins",
			status:  http.StatusOK,
			body:    `[{"lat":"6.9271","lon":"79.8612","display_name":"Colombo"},{"lat":"0","lon":"0"}]`,
			wantLat: 6.9271,
			wantLon: 79.8612,
		},
		{
			name:    "empty result list",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: ErrNoResult,
		},
		{
			name:    "provider reports unknown address",
			status:  http.StatusNotFound,
			body:    `{"error":"Unable to geocode"}`,
			wantErr: ErrNoResult,
		},
		{
			name:    "out of range coordinates",
			status:  http.StatusOK,
			body:    `[{"lat":"96.1","lon":"79.8"}]`,
			wantErr: ErrNoResult,
		},
		{
			name:    "unparseable coordinates",
			status:  http.StatusOK,
			body:    `[{"lat":"north","lon":"79.8"}]`,
			wantErr: ErrNoResult,
		},
		{
			name:     "malformed body",
			status:   http.StatusOK,
			body:     `{"lat":`,
			anyError: true,
		},
		{
			name:     "provider failure",
			status:   http.StatusTooManyRequests,
			body:     `{"error":"Rate Limited"}`,
			anyError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "secret-key", q.Get("key"))
				assert.Equal(t, "12 Galle Road, Colombo", q.Get("q"))
				assert.Equal(t, "json", q.Get("format"))
				assert.Equal(t, "1", q.Get("limit"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			r, err := NewLocationIQ("secret-key", WithEndpoint(srv.URL+"/v1/search.php"))
			require.NoError(t, err)

			got, err := r.Resolve(context.Background(), "  12 Galle Road, Colombo ")
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.NotContains(t, err.Error(), "secret-key")
			case tt.anyError:
				require.Error(t, err)
				assert.NotContains(t, err.Error(), "secret-key")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantLat, got.Latitude)
				assert.Equal(t, tt.wantLon, got.Longitude)
			}
		})
	}
}

func TestLocationIQ_EmptyAddress(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	// no calls expected

	r, err := NewLocationIQ("k", WithHTTPClient(client))
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyAddress)
}

func TestLocationIQ_CancelledContext(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client.EXPECT().Get(ctx, gomock.Any()).Return(nil, httpclient.NewHTTPError(0, "u?key=k", "cancelled"))

	r, err := NewLocationIQ("k", WithHTTPClient(client))
	require.NoError(t, err)

	_, err = r.Resolve(ctx, "Kandy")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewLocationIQ(t *testing.T) {
	t.Parallel()

	_, err := NewLocationIQ("")
	require.Error(t, err)

	_, err = NewLocationIQ("k", WithEndpoint("ftp://geo.example"))
	require.Error(t, err)

	_, err = NewLocationIQ("k", WithHTTPClient(nil))
	require.Error(t, err)

	r, err := NewLocationIQ("k")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocationIQEndpoint, r.endpoint)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	_, err := Disabled{}.Resolve(context.Background(), "Colombo")
	require.ErrorIs(t, err, ErrNoResult)
}
