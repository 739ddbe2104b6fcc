// internal/source/types.go
package source

import (
	"context"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
)

// StatusSuccess is the status reported by the inventory source on success.
const StatusSuccess = "SUCCESS"

// Order is a raw sales order from the commerce platform
type Order struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	CreatedAt   string     `json:"created_at"`
	Currency    string     `json:"currency"`
	TotalPrice  string     `json:"total_price"`
	LineItems   []LineItem `json:"line_items"`
	Email       string     `json:"email,omitempty"`
	OrderNumber int        `json:"order_number"`
}

// LineItem is a single product line within an order
type LineItem struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// OrdersResponse is the envelope returned by the orders endpoint
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// InventoryProduct is a product record in the inventory source. Stock and
// Locations are keyed by warehouse and carry no ordering.
type InventoryProduct struct {
	ProductID           string                        `json:"product_id"`
	EAN                 string                        `json:"ean"`
	SKU                 string                        `json:"sku"`
	Name                string                        `json:"name"`
	Quantity            int                           `json:"quantity"`
	PriceBrutto         *float64                      `json:"price_brutto"`
	PriceWholesaleNetto *float64                      `json:"price_wholesale_netto"`
	Stock               map[domain.WarehouseID]int    `json:"stock"`
	Locations           map[domain.WarehouseID]string `json:"locations"`
}

// TotalStock sums the per-warehouse quantities. A negative warehouse count
// contributes nothing.
func (p InventoryProduct) TotalStock() int {
	total := 0
	for _, qty := range p.Stock {
		total += max(qty, 0)
	}
	return total
}

// InventoryResponse is a multi-product inventory payload
type InventoryResponse struct {
	Status   string                      `json:"status"`
	Products map[string]InventoryProduct `json:"products"`
}

// SalesSource lists raw orders containing a SKU over the last windowDays days.
type SalesSource interface {
	FetchOrders(ctx context.Context, sku string, windowDays int) ([]Order, error)
}

// InventorySource returns inventory payloads for one or all products.
type InventorySource interface {
	FetchInventory(ctx context.Context, sku string) (*InventoryResponse, error)
	FetchAllProducts(ctx context.Context) (*InventoryResponse, error)
}
