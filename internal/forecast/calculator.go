// Package forecast derives forward-looking financial metrics for a reorder
// recommendation.
package forecast

import (
	"fmt"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/shopspring/decimal"
)

var daysPerYear = decimal.NewFromInt(365)

// Calculator computes financial metrics from a forecast input
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator bound to cfg
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Config returns the rates the calculator was built with.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Calculate is a convenience wrapper around Calculator.Calculate.
func Calculate(input domain.ForecastInput, daysUntilStockout, suggestedOrderQuantity int, cfg Config) domain.FinancialMetrics {
	return NewCalculator(cfg).Calculate(input, daysUntilStockout, suggestedOrderQuantity)
}

// Calculate computes all financial metrics for input given the recommendation's
// stockout horizon and suggested order quantity.
func (c *Calculator) Calculate(input domain.ForecastInput, daysUntilStockout, suggestedOrderQuantity int) domain.FinancialMetrics {
	avgDailySales := AverageDailySales(input.Sales)
	avgUnitPrice := AverageUnitPrice(input.Sales)
	horizon := Horizon(daysUntilStockout, c.cfg)

	cost := input.UnitCost
	margin := avgUnitPrice.Sub(cost)
	horizonDays := decimal.NewFromInt(int64(horizon))
	leadTime := decimal.NewFromInt(int64(input.LeadTimeDays))

	// 1. Expected units over the horizon
	expectedUnits := avgDailySales.Mul(horizonDays)

	// 2. Expected revenue = avg unit price × expected units
	expectedRevenue := avgUnitPrice.Mul(expectedUnits)

	// 3. Expected profit = (avg unit price − unit cost) × expected units
	expectedProfit := margin.Mul(expectedUnits)

	// 4. Carrying cost = inventory value × rate × horizon/365
	inventoryValue := cost.Mul(decimal.NewFromInt(int64(input.Stock.Quantity)))
	carryingCost := inventoryValue.Mul(c.cfg.CarryingCostRate).Mul(horizonDays).Div(daysPerYear)

	// 5. Stockout loss: lost margin plus service penalty on demand unmet before replenishment
	stockoutLoss := decimal.Zero
	if daysUntilStockout <= input.LeadTimeDays {
		window := input.LeadTimeDays - max(daysUntilStockout, 0)
		unmetDemand := avgDailySales.Mul(decimal.NewFromInt(int64(window)))
		lostMargin := margin.Mul(unmetDemand)
		penalty := avgUnitPrice.Mul(unmetDemand).Mul(c.cfg.StockoutPenaltyRate)
		stockoutLoss = lostMargin.Add(penalty)
	}

	// 6. Opportunity cost on units ordered beyond lead-time demand. Without a
	// demand signal there is no margin to forgo.
	opportunityCost := decimal.Zero
	if suggestedOrderQuantity > 0 && avgDailySales.IsPositive() {
		expectedDuringLead := avgDailySales.Mul(leadTime)
		surplus := decimal.Max(decimal.Zero, decimal.NewFromInt(int64(suggestedOrderQuantity)).Sub(expectedDuringLead))
		opportunityCost = margin.Mul(surplus)
	}

	return domain.FinancialMetrics{
		ExpectedRevenue: roundCurrency(expectedRevenue),
		ExpectedProfit:  roundCurrency(expectedProfit),
		CarryingCost:    roundCurrency(carryingCost),
		StockoutLoss:    roundCurrency(stockoutLoss),
		OpportunityCost: roundCurrency(opportunityCost),
		Assumptions:     c.assumptions(len(input.Sales), avgDailySales, avgUnitPrice, horizon),
	}
}

func (c *Calculator) assumptions(records int, avgDailySales, avgUnitPrice decimal.Decimal, horizon int) string {
	return fmt.Sprintf(
		"Based on %d sales records. Avg daily sales: %s units @ $%s. Forecast horizon: %d days. "+
			"Carrying cost rate: %s%%, Stockout penalty: %s%%",
		records,
		avgDailySales.StringFixed(1),
		avgUnitPrice.StringFixed(2),
		horizon,
		c.cfg.CarryingCostRate.Mul(decimal.NewFromInt(100)).StringFixed(0),
		c.cfg.StockoutPenaltyRate.Mul(decimal.NewFromInt(100)).StringFixed(0),
	)
}
