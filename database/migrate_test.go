package database

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMigrateURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", toMigrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", toMigrateURL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://u@h/db", toMigrateURL("pgx5://u@h/db"))
}

func TestMigrations_UpDownUp(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("skipping Postgres container test in short mode")
	}

	connString := SetupTestDBContainer(t, context.Background())

	fnames, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, fnames)

	require.NoError(t, MigrateUp(connString))
	version, dirty, err := GetVersion(connString)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(len(fnames)), version)

	require.NoError(t, MigrateDown(connString, 0))
	version, _, err = GetVersion(connString)
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, MigrateUp(connString))
	require.NoError(t, MigrateUp(connString), "re-applying is a no-op")
}
