package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var day0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func sale(dayOffset, qty int, price string) domain.SaleEvent {
	return domain.NewSaleEvent(day0.AddDate(0, 0, dayOffset), qty, decimal.RequireFromString(price))
}

func scenarioInput(sales []domain.SaleEvent) domain.ForecastInput {
	return domain.NewForecastInput(
		domain.Product{SKU: "SKU-001", Name: "Premium Wireless Headphones", UnitCost: decimal.RequireFromString("60.00"), LeadTimeDays: 14},
		sales,
		domain.StockSnapshot{SKU: "SKU-001", Quantity: 50, Location: "bl_1234 (A-1-01): 50"},
	)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), field)
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	input := scenarioInput([]domain.SaleEvent{sale(0, 2, "100.00"), sale(1, 2, "100.00")})

	m := Calculate(input, 10, 80, DefaultConfig())

	assertMoney(t, "2000.00", m.ExpectedRevenue, "expected revenue")
	assertMoney(t, "800.00", m.ExpectedProfit, "expected profit")
	assertMoney(t, "16.44", m.CarryingCost, "carrying cost")
	assertMoney(t, "440.00", m.StockoutLoss, "stockout loss")
	assertMoney(t, "2080.00", m.OpportunityCost, "opportunity cost")
	assert.Equal(t,
		"Based on 2 sales records. Avg daily sales: 2.0 units @ $100.00. Forecast horizon: 10 days. Carrying cost rate: 20%, Stockout penalty: 15%",
		m.Assumptions)
}

func TestCalculate_EmptySalesHistory(t *testing.T) {
	input := scenarioInput(nil)

	m := Calculate(input, 10, 80, DefaultConfig())

	assertMoney(t, "0.00", m.ExpectedRevenue, "expected revenue")
	assertMoney(t, "0.00", m.ExpectedProfit, "expected profit")
	assertMoney(t, "0.00", m.StockoutLoss, "stockout loss")
	assertMoney(t, "0.00", m.OpportunityCost, "opportunity cost")
	assertMoney(t, "16.44", m.CarryingCost, "carrying cost depends only on stock and cost")
	assert.Contains(t, m.Assumptions, "Based on 0 sales records. Avg daily sales: 0.0 units @ $0.00.")
}

func TestCalculate_NoStockoutLossWhenStockOutlastsLeadTime(t *testing.T) {
	input := scenarioInput([]domain.SaleEvent{sale(0, 9, "100.00"), sale(3, 4, "120.00")})

	for _, days := range []int{15, 30, 200} {
		m := Calculate(input, days, 0, DefaultConfig())
		assert.True(t, m.StockoutLoss.IsZero(), "days=%d", days)
	}
}

func TestCalculate_StockoutLossWithNonPositiveHorizon(t *testing.T) {
	input := scenarioInput([]domain.SaleEvent{sale(0, 2, "100.00"), sale(1, 2, "100.00")})

	// Already out of stock: the whole lead time is unmet demand (2/day × 14 days).
	// lost margin 40×28 = 1120, penalty 100×28×0.15 = 420
	m := Calculate(input, 0, 0, DefaultConfig())
	assertMoney(t, "1540.00", m.StockoutLoss, "stockout loss")

	negative := Calculate(input, -5, 0, DefaultConfig())
	assert.True(t, m.StockoutLoss.Equal(negative.StockoutLoss))
}

func TestCalculate_OpportunityCost(t *testing.T) {
	input := scenarioInput([]domain.SaleEvent{sale(0, 2, "100.00"), sale(1, 2, "100.00")})

	for _, qty := range []int{0, -10} {
		m := Calculate(input, 10, qty, DefaultConfig())
		assert.True(t, m.OpportunityCost.IsZero(), "qty=%d", qty)
	}

	// Order fully consumed during lead time (28 units expected).
	m := Calculate(input, 10, 20, DefaultConfig())
	assert.True(t, m.OpportunityCost.IsZero())
}

func TestHorizon(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, Horizon(10, cfg))
	assert.Equal(t, 30, Horizon(0, cfg))
	assert.Equal(t, 30, Horizon(-4, cfg))
	assert.Equal(t, 90, Horizon(91, cfg))
	assert.Equal(t, 90, Horizon(10000, cfg))

	cfg.DefaultForecastHorizonDays = 365
	assert.Equal(t, 90, Horizon(0, cfg))
}

func TestCalculate_HorizonCapped(t *testing.T) {
	input := scenarioInput([]domain.SaleEvent{sale(0, 2, "100.00"), sale(1, 2, "100.00")})

	capped := Calculate(input, 500, 0, DefaultConfig())
	at90 := Calculate(input, 90, 0, DefaultConfig())

	assert.True(t, capped.ExpectedRevenue.Equal(at90.ExpectedRevenue))
	assertMoney(t, "18000.00", capped.ExpectedRevenue, "2/day × 90 days × 100")
	assert.Contains(t, capped.Assumptions, "Forecast horizon: 90 days")
}

func TestAverageDailySales(t *testing.T) {
	assert.True(t, AverageDailySales(nil).IsZero())

	// Single day spans one day.
	assert.Equal(t, "5", AverageDailySales([]domain.SaleEvent{sale(0, 5, "1")}).String())

	// Insertion order is irrelevant: 9 units across 2024-06-01..2024-06-03.
	unordered := []domain.SaleEvent{sale(2, 3, "1"), sale(0, 4, "1"), sale(1, 2, "1")}
	assert.Equal(t, "3", AverageDailySales(unordered).String())
}

func TestAverageUnitPrice(t *testing.T) {
	assert.True(t, AverageUnitPrice(nil).IsZero())
	assert.True(t, AverageUnitPrice([]domain.SaleEvent{sale(0, 0, "10")}).IsZero())

	// (2×10.00 + 1×10.01) / 3 = 10.0033 → 10.00
	got := AverageUnitPrice([]domain.SaleEvent{sale(0, 2, "10.00"), sale(0, 1, "10.01")})
	assert.Equal(t, "10.00", got.StringFixed(2))

	// 0.125 rounds half up to 0.13
	got = AverageUnitPrice([]domain.SaleEvent{sale(0, 8, "0.125")})
	assert.Equal(t, "0.13", got.StringFixed(2))
}

func TestConfigFromSettings(t *testing.T) {
	cfg := ConfigFromSettings(config.ForecastConfig{CarryingCostRate: 0.25, StockoutPenaltyRate: 0.1, HorizonDays: 45})
	assert.Equal(t, "0.25", cfg.CarryingCostRate.String())
	assert.Equal(t, "0.1", cfg.StockoutPenaltyRate.String())
	assert.Equal(t, 45, cfg.DefaultForecastHorizonDays)

	fallback := ConfigFromSettings(config.ForecastConfig{CarryingCostRate: -1, StockoutPenaltyRate: -1})
	assert.True(t, fallback.CarryingCostRate.Equal(DefaultConfig().CarryingCostRate))
	assert.True(t, fallback.StockoutPenaltyRate.Equal(DefaultConfig().StockoutPenaltyRate))
	assert.Equal(t, 30, fallback.DefaultForecastHorizonDays)
}

func TestCalculator_CustomRates(t *testing.T) {
	c := NewCalculator(ConfigFromSettings(config.ForecastConfig{CarryingCostRate: 0.365, StockoutPenaltyRate: 0, HorizonDays: 30}))
	input := scenarioInput([]domain.SaleEvent{sale(0, 2, "100.00"), sale(1, 2, "100.00")})

	m := c.Calculate(input, 10, 0)

	// 60 × 50 × 0.365 × 10/365 = 30.00
	assertMoney(t, "30.00", m.CarryingCost, "carrying cost")
	// no penalty: 40 × 8 = 320
	assertMoney(t, "320.00", m.StockoutLoss, "stockout loss")
	assert.Contains(t, m.Assumptions, "Carrying cost rate: 37%, Stockout penalty: 0%")
}
