// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoWarehouseStockMessage is reported as the stock location when the
// inventory source has no warehouse data for a product.
const NoWarehouseStockMessage = "No warehouse stock data available"

// WarehouseID identifies a warehouse in the inventory source (e.g. "bl_1234").
// Maps keyed by WarehouseID are unordered.
type WarehouseID string

// Product is the canonical catalog record for a SKU
type Product struct {
	ID           int64           `json:"id" db:"id"`
	SKU          string          `json:"sku" db:"sku"`
	Name         string          `json:"product_name" db:"product_name"`
	UnitCost     decimal.Decimal `json:"cogs" db:"cogs"`
	LeadTimeDays int             `json:"lead_time_days" db:"lead_time_days"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// SaleEvent is a single matched order line for a SKU
type SaleEvent struct {
	Date        time.Time       `json:"date"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewSaleEvent truncates date to its calendar day and derives the total amount.
func NewSaleEvent(date time.Time, quantity int, unitPrice decimal.Decimal) SaleEvent {
	y, m, d := date.Date()
	return SaleEvent{
		Date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalAmount: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// StockSnapshot is the current stock of a SKU summed across warehouses
type StockSnapshot struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Location string `json:"location"`
}

// EmptyStockSnapshot is the snapshot used when no warehouse data exists.
func EmptyStockSnapshot(sku string) StockSnapshot {
	return StockSnapshot{SKU: sku, Quantity: 0, Location: NoWarehouseStockMessage}
}

// ForecastInput is the reconciled per-SKU bundle consumed by the recommendation
// bridge and the forecast calculator. It is built once per request and only read.
type ForecastInput struct {
	SKU          string
	ProductName  string
	UnitCost     decimal.Decimal
	LeadTimeDays int
	Sales        []SaleEvent
	Stock        StockSnapshot
}

// NewForecastInput assembles the bundle from a catalog product, its sales and stock.
func NewForecastInput(product Product, sales []SaleEvent, stock StockSnapshot) ForecastInput {
	owned := make([]SaleEvent, len(sales))
	copy(owned, sales)

	leadTime := product.LeadTimeDays
	if leadTime < 0 {
		leadTime = 0
	}
	cost := product.UnitCost
	if cost.IsNegative() {
		cost = decimal.Zero
	}

	return ForecastInput{
		SKU:          product.SKU,
		ProductName:  product.Name,
		UnitCost:     cost,
		LeadTimeDays: leadTime,
		Sales:        owned,
		Stock:        stock,
	}
}

// TotalUnitsSold sums the quantity of every sale event.
func (in ForecastInput) TotalUnitsSold() int {
	total := 0
	for _, s := range in.Sales {
		total += s.Quantity
	}
	return total
}

// TotalRevenue sums the pre-computed total amount of every sale event.
func (in ForecastInput) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range in.Sales {
		total = total.Add(s.TotalAmount)
	}
	return total
}
