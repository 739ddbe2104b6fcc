// Package reconcile maps raw upstream sales and inventory payloads into the
// canonical record model.
package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/shopspring/decimal"
)

const (
	dateLayout      = "2006-01-02"
	unknownLocation = "Unknown"
)

// ReconcileSales emits one SaleEvent per line item matching sku, in input order.
// Items with a non-positive quantity carry no sale and are skipped.
func ReconcileSales(sku string, orders []source.Order) ([]domain.SaleEvent, error) {
	sales := make([]domain.SaleEvent, 0, len(orders))

	for _, order := range orders {
		var (
			date   time.Time
			parsed bool
		)

		for _, item := range order.LineItems {
			if item.SKU != sku || item.Quantity <= 0 {
				continue
			}

			// Only parse the order date once an item actually matches.
			if !parsed {
				d, err := parseOrderDate(order.CreatedAt)
				if err != nil {
					return nil, fmt.Errorf("%w: order %d: %v", domain.ErrUpstream, order.ID, err)
				}
				date, parsed = d, true
			}

			unitPrice, err := decimal.NewFromString(strings.TrimSpace(item.Price))
			if err != nil {
				return nil, fmt.Errorf("%w: order %d: invalid price %q", domain.ErrUpstream, order.ID, item.Price)
			}
			if unitPrice.IsNegative() {
				return nil, fmt.Errorf("%w: order %d: negative price %q", domain.ErrUpstream, order.ID, item.Price)
			}

			sales = append(sales, domain.NewSaleEvent(date, item.Quantity, unitPrice))
		}
	}

	return sales, nil
}

// parseOrderDate takes the calendar day from an ISO-8601 prefixed timestamp.
func parseOrderDate(createdAt string) (time.Time, error) {
	if len(createdAt) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", createdAt)
	}
	d, err := time.Parse(dateLayout, createdAt[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", createdAt)
	}
	return d, nil
}

// ReconcileStock selects the product matching sku and sums its warehouse stock.
func ReconcileStock(sku string, resp *source.InventoryResponse) (domain.StockSnapshot, error) {
	if resp == nil {
		return domain.StockSnapshot{}, fmt.Errorf("%w: no inventory response for sku %s", domain.ErrNotFound, sku)
	}
	if resp.Status != source.StatusSuccess {
		return domain.StockSnapshot{}, fmt.Errorf("%w: inventory source returned status %q for sku %s", domain.ErrNotFound, resp.Status, sku)
	}

	product, ok := FindProduct(sku, resp)
	if !ok {
		return domain.StockSnapshot{}, fmt.Errorf("%w: sku %s not in inventory response", domain.ErrNotFound, sku)
	}

	if len(product.Stock) == 0 {
		return domain.EmptyStockSnapshot(sku), nil
	}

	return domain.StockSnapshot{
		SKU:      sku,
		Quantity: product.TotalStock(),
		Location: LocationSummary(product.Stock, product.Locations),
	}, nil
}

// FindProduct returns the product whose SKU equals sku.
func FindProduct(sku string, resp *source.InventoryResponse) (source.InventoryProduct, bool) {
	for _, p := range resp.Products {
		if p.SKU == sku {
			return p, true
		}
	}
	return source.InventoryProduct{}, false
}

// LocationSummary renders "<warehouse> (<location>): <qty>" for every warehouse
// in stock, with negative counts shown as 0. Warehouse order is unspecified.
func LocationSummary(stock map[domain.WarehouseID]int, locations map[domain.WarehouseID]string) string {
	parts := make([]string, 0, len(stock))
	for warehouse, qty := range stock {
		location, ok := locations[warehouse]
		if !ok {
			location = unknownLocation
		}
		parts = append(parts, fmt.Sprintf("%s (%s): %d", warehouse, location, max(qty, 0)))
	}
	return strings.Join(parts, ", ")
}
