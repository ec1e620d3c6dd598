package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.ServerPort)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.OAuthStateTTL)
	assert.Equal(t, 10000, cfg.OAuthStateCapacity)
	assert.Equal(t, 5.0, cfg.WSSendRate)
	assert.Equal(t, 10, cfg.WSSendBurst)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("JWT_SECRET", "a-much-longer-secret-value")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.GoogleEnabled())
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "unknown STORAGE_BACKEND")
}

func TestLoad_RejectsDevSecretForPersistentStorage(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db", DBPort: "5432", DBUser: "lawn", DBPassword: "p@ss",
		DBName: "lawnpool", DBSSLMode: "disable",
	}
	assert.Equal(t, "postgres://lawn:p%40ss@db:5432/lawnpool?sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.DSN())
}
