package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/internal/repository/contracttest"
	"github.com/vedran77/lawnpool/internal/repository/sqlite"
)

func TestContract_SQLite(t *testing.T) {
	contracttest.RunAll(t, func(t *testing.T) *repository.Store {
		t.Helper()
		db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		return sqlite.NewStore(db)
	})
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	db, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'group_members'").Scan(&n))
	assert.Equal(t, 1, n)
}
