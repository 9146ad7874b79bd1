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

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "microfleet", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTLFleetOverview)
	assert.False(t, cfg.NewRelic.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "fleet_test")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("CACHE_TTL_FLEET_OVERVIEW_SECONDS", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "fleet_test", cfg.Database.Name)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTLFleetOverview)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg, err = Load()
	require.NoError(t, err)

	cfg.NewRelic.Enabled = true
	cfg.NewRelic.LicenseKey = ""
	assert.Error(t, cfg.Validate())
}

func TestGetEnvAsInt_Invalid(t *testing.T) {
	t.Setenv("DB_MAX_CONNECTIONS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Database.MaxConnections)
}

func TestParseDuration_Invalid(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseDuration("bogus", 5*time.Second))
	assert.Equal(t, 90*time.Second, parseDuration("90s", 5*time.Second))
}
