package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPrimeSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
		contains []string
		errMsg   string
	}{
		{
			name:     "creates role and user",
			username: "donation_app",
			password: "s3cret\n",
			contains: []string{
				"CREATE ROLE donation_coordinator",
				"CREATE USER donation_app WITH PASSWORD 's3cret'",
				"GRANT donation_coordinator TO donation_app",
			},
		},
		{
			name:     "escapes quotes in password",
			username: "donation_app",
			password: "it's",
			contains: []string{"PASSWORD 'it''s'"},
		},
		{
			name:     "rejects quoted identifiers",
			username: `app"; DROP TABLE donor; --`,
			password: "x",
			errMsg:   "invalid username",
		},
		{
			name:     "rejects upper case",
			username: "DonationApp",
			password: "x",
			errMsg:   "invalid username",
		},
		{
			name:     "rejects empty password",
			username: "donation_app",
			password: "  \n",
			errMsg:   "password cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sql, err := RenderPrimeSQL(tt.username, tt.password)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, sql, want)
			}
		})
	}
}

func TestRenderPrimeSQL_AppliesAndGrants(t *testing.T) {
	t.Parallel()

	pool := SetupTestDB(t)
	ctx := context.Background()

	sql, err := RenderPrimeSQL("donation_app", "app-password")
	require.NoError(t, err)

	// Priming twice must succeed
	for range 2 {
		_, err = pool.Exec(ctx, sql)
		require.NoError(t, err)
	}

	var member bool
	err = pool.QueryRow(ctx,
		`SELECT pg_has_role('donation_app', $1, 'MEMBER')`, AppRole).Scan(&member)
	require.NoError(t, err)
	assert.True(t, member)

	var canInsert bool
	err = pool.QueryRow(ctx,
		`SELECT has_table_privilege('donation_app', 'donation', 'INSERT')`).Scan(&canInsert)
	require.NoError(t, err)
	assert.True(t, canInsert)
}
