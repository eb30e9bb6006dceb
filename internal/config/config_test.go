package config

import (
	"context"
	"testing"
	"time"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/adapters/persistence/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("PHONE_REGION", "th")
	t.Setenv("STRICT_TRANSITIONS", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("EXPIRY_CRON", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("STATS_CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "TH", cfg.Lending.PhoneRegion)
	assert.False(t, cfg.Lending.StrictTransitions)
	assert.False(t, cfg.Lending.PurgeItems)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Redis.StatsTTL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Jobs.SeedEmployees)
}

func TestLoad_ProdOverrides(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_NAME", "pawn_prod")
	t.Setenv("STRICT_TRANSITIONS", "true")
	t.Setenv("CUSTOMER_DELETE_PURGE_ITEMS", "1")
	t.Setenv("STATS_CACHE_TTL", "2m")
	t.Setenv("EXPIRY_CRON", " 0 30 0 * * * ")
	t.Setenv("SEED_EMPLOYEES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "pawn_prod", cfg.Database.DBName)
	assert.True(t, cfg.Lending.StrictTransitions)
	assert.True(t, cfg.Lending.PurgeItems)
	assert.Equal(t, 2*time.Minute, cfg.Redis.StatsTTL)
	assert.Equal(t, "0 30 0 * * *", cfg.Jobs.ExpiryCron)
	assert.False(t, cfg.Jobs.SeedEmployees)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("APP_MODE", "staging")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("APP_MODE", "dev")
	t.Setenv("STATS_CACHE_TTL", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{User: "u", Password: "p", Host: "db", Port: "3306", DBName: "pawn"})
	assert.Equal(t, "u:p@tcp(db:3306)/pawn?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}

func TestSeeder_RunsOnce(t *testing.T) {
	db := testdb.New(t)
	seeder := NewSeeder(repositories.NewEmployeeRepository(db))
	ctx := context.Background()

	n, err := seeder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = seeder.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.EqualValues(t, 3, testdb.Count(t, db, "employees"))
}

func TestHealthCheck(t *testing.T) {
	assert.Error(t, HealthCheck(nil))
	assert.NoError(t, HealthCheck(testdb.New(t)))
}
