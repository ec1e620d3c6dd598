package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vedran77/lawnpool/internal/database"
	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/internal/repository/contracttest"
	"github.com/vedran77/lawnpool/internal/repository/postgres"
)

// TEST_DATABASE_URL must point at a disposable database: tables are truncated.
func TestContract_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	contracttest.RunAll(t, func(t *testing.T) *repository.Store {
		t.Helper()
		ctx := context.Background()

		pool, err := database.Connect(ctx, dsn)
		require.NoError(t, err)
		require.NoError(t, database.Migrate(ctx, pool))
		_, err = pool.Exec(ctx, "TRUNCATE messages, offers, group_members, groups, users CASCADE")
		require.NoError(t, err)

		return postgres.NewStore(pool)
	})
}
