package forecast

import (
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/shopspring/decimal"
)

// roundCurrency rounds half away from zero to 2 decimal places, which is
// round-half-up for the non-negative amounts reported here.
func roundCurrency(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// AverageDailySales divides the units sold by the inclusive number of days
// between the earliest and latest sale. Returns zero for an empty history.
func AverageDailySales(sales []domain.SaleEvent) decimal.Decimal {
	if len(sales) == 0 {
		return decimal.Zero
	}

	earliest, latest := sales[0].Date, sales[0].Date
	total := 0
	for _, s := range sales {
		if s.Date.Before(earliest) {
			earliest = s.Date
		}
		if s.Date.After(latest) {
			latest = s.Date
		}
		total += s.Quantity
	}

	days := int64(latest.Sub(earliest).Hours()/24) + 1
	if days < 1 {
		days = 1
	}

	return decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(days))
}

// AverageUnitPrice divides total revenue by units sold, rounded to cents.
// Returns zero when nothing was sold.
func AverageUnitPrice(sales []domain.SaleEvent) decimal.Decimal {
	total := 0
	revenue := decimal.Zero
	for _, s := range sales {
		total += s.Quantity
		revenue = revenue.Add(s.TotalAmount)
	}
	if total == 0 {
		return decimal.Zero
	}
	return revenue.DivRound(decimal.NewFromInt(int64(total)), 2)
}

// Horizon returns the forecast horizon: the stockout estimate when positive,
// otherwise the configured default, capped at MaxForecastHorizonDays.
func Horizon(daysUntilStockout int, cfg Config) int {
	horizon := cfg.DefaultForecastHorizonDays
	if daysUntilStockout > 0 {
		horizon = daysUntilStockout
	}
	return min(horizon, MaxForecastHorizonDays)
}
