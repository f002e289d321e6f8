package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPublicPath(t *testing.T) {
	t.Parallel()

	standardPublicPaths := []string{"/health", "/version", "/metrics"}

	tests := []struct {
		name        string
		path        string
		publicPaths []string
		want        bool
	}{
		// Basic functionality
		{"exact match", "/health", standardPublicPaths, true},
		{"subpath match", "/version/build", standardPublicPaths, true},
		{"no match", "/v1/admin/stats", standardPublicPaths, false},
		{"empty public paths", "/any", []string{}, false},
		{"nil public paths", "/health", nil, false},
		{"blank entry is ignored", "/v1/admin/stats", []string{""}, false},

		// Path traversal attacks (security critical)
		{"traversal to protected", "/health/../v1/admin/stats", standardPublicPaths, false},
		{"traversal multiple levels", "/version/../../v1/donor/donations", standardPublicPaths, false},
		{"traversal stays in public", "/version/v1/../v2", standardPublicPaths, true},

		// Double encoding attacks
		{"encoded path separators", "/metrics/..%2f..%2fv1/admin/stats", standardPublicPaths, false},

		// Unintended prefix matches (security critical)
		{"healthcheck not health", "/healthcheck", standardPublicPaths, false},
		{"metricsz not metrics", "/metricsz", standardPublicPaths, false},

		// Correct segment boundaries
		{"health/check matches", "/health/check", standardPublicPaths, true},
		{"trailing slash", "/health/", standardPublicPaths, true},

		// Path normalization
		{"double slash", "//health", standardPublicPaths, true},
		{"dot reference", "/./version/build", standardPublicPaths, true},

		// Root path special case
		{"root exact", "/", []string{"/"}, true},
		{"root makes all public", "/v1/notifications", []string{"/"}, true},

		// Case sensitivity (URLs are case-sensitive)
		{"case sensitive", "/Health", standardPublicPaths, false},

		// Combined attack
		{"traversal with normalization", "//health/..//v1", standardPublicPaths, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsPublicPath(tt.path, tt.publicPaths)
			assert.Equal(t, tt.want, got, "path=%q, publicPaths=%v", tt.path, tt.publicPaths)
		})
	}
}
