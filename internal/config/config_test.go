package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	viper.Reset()
	setDefaults()

	cfg := fromViper()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mock", cfg.Sources.Mode)
	assert.Equal(t, 30, cfg.Sources.SalesWindowDays)
	assert.InDelta(t, 0.20, cfg.Forecast.CarryingCostRate, 1e-9)
	assert.InDelta(t, 0.15, cfg.Forecast.StockoutPenaltyRate, 1e-9)
	assert.Equal(t, 30, cfg.Forecast.HorizonDays)
	assert.Equal(t, 24, cfg.Sessions.DefaultTTLHours)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Archive.Enabled)
}

func TestFromViper_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	setDefaults()
	viper.AutomaticEnv()

	t.Setenv("FINANCIAL_CARRYING_COST_RATE", "0.25")
	t.Setenv("SOURCES_MODE", "live")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")

	cfg := fromViper()

	assert.InDelta(t, 0.25, cfg.Forecast.CarryingCostRate, 1e-9)
	assert.Equal(t, "live", cfg.Sources.Mode)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}
