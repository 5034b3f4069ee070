package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cargo-engine", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)

	assert.Equal(t, "0.0.0.0", cfg.API.Host)
	assert.Equal(t, 8080, cfg.API.Port)

	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)

	assert.Equal(t, 5000, cfg.MonteCarlo.Simulations)
	assert.Equal(t, 4, cfg.MonteCarlo.Workers)

	assert.Equal(t, 0.20, cfg.Sensitivity.Shock)
	assert.Equal(t, "./config/forecasts.json", cfg.Forecasts.Path)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("LNG_API_PORT", "9090")
	t.Setenv("LNG_MONTECARLO_SIMULATIONS", "1000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, 1000, cfg.MonteCarlo.Simulations)
}
