package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialMetrics quantifies the economic consequence of a recommendation.
// All amounts are rounded to 2 decimal places.
type FinancialMetrics struct {
	ExpectedRevenue decimal.Decimal `json:"expectedRevenue"`
	ExpectedProfit  decimal.Decimal `json:"expectedProfit"`
	CarryingCost    decimal.Decimal `json:"carryingCost"`
	StockoutLoss    decimal.Decimal `json:"stockoutLoss"`
	OpportunityCost decimal.Decimal `json:"opportunityCost"`
	Assumptions     string          `json:"assumptions"`
}

// MarshalJSON renders every amount as a number with exactly two decimals.
func (m FinancialMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ExpectedRevenue json.Number `json:"expectedRevenue"`
		ExpectedProfit  json.Number `json:"expectedProfit"`
		CarryingCost    json.Number `json:"carryingCost"`
		StockoutLoss    json.Number `json:"stockoutLoss"`
		OpportunityCost json.Number `json:"opportunityCost"`
		Assumptions     string      `json:"assumptions"`
	}{
		ExpectedRevenue: json.Number(m.ExpectedRevenue.StringFixed(2)),
		ExpectedProfit:  json.Number(m.ExpectedProfit.StringFixed(2)),
		CarryingCost:    json.Number(m.CarryingCost.StringFixed(2)),
		StockoutLoss:    json.Number(m.StockoutLoss.StringFixed(2)),
		OpportunityCost: json.Number(m.OpportunityCost.StringFixed(2)),
		Assumptions:     m.Assumptions,
	})
}

// AdviceResponse bundles the recommendation and the financial metrics for a SKU
type AdviceResponse struct {
	RequestID      string               `json:"request_id"`
	SKU            string               `json:"sku"`
	Analysis       string               `json:"analysis"`
	Recommendation RecommendationResult `json:"recommendations"`
	Financials     FinancialMetrics     `json:"financial_metrics"`
	GeneratedAt    time.Time            `json:"generated_at"`
	TTLHours       int                  `json:"ttl_hours"`
}

// ProductSummary is a catalog product enriched with recent stock and sales figures
type ProductSummary struct {
	Product
	StockQuantity     int             `json:"stock_quantity"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	MonthlyProfit     decimal.Decimal `json:"monthly_profit"`
}
