package forecast

import (
	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/shopspring/decimal"
)

// MaxForecastHorizonDays caps the forecast horizon regardless of the stockout estimate.
const MaxForecastHorizonDays = 90

// Config holds the rates used by the calculator
type Config struct {
	CarryingCostRate           decimal.Decimal // annualised holding cost as a fraction of inventory value
	StockoutPenaltyRate        decimal.Decimal // fraction of lost-sale revenue charged as service penalty
	DefaultForecastHorizonDays int             // horizon used when no stockout estimate is available
}

// DefaultConfig returns the standard rates: 20% carrying, 15% penalty, 30 day horizon.
func DefaultConfig() Config {
	return Config{
		CarryingCostRate:           decimal.RequireFromString("0.20"),
		StockoutPenaltyRate:        decimal.RequireFromString("0.15"),
		DefaultForecastHorizonDays: 30,
	}
}

// ConfigFromSettings converts loaded settings, falling back to defaults for
// non-positive horizons and negative rates.
func ConfigFromSettings(s config.ForecastConfig) Config {
	cfg := DefaultConfig()
	if s.CarryingCostRate >= 0 {
		cfg.CarryingCostRate = decimal.NewFromFloat(s.CarryingCostRate)
	}
	if s.StockoutPenaltyRate >= 0 {
		cfg.StockoutPenaltyRate = decimal.NewFromFloat(s.StockoutPenaltyRate)
	}
	if s.HorizonDays > 0 {
		cfg.DefaultForecastHorizonDays = s.HorizonDays
	}
	return cfg
}
