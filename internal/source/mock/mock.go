// Package mock generates realistic commerce and inventory payloads for local
// development when no upstream credentials are configured.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/brianvoe/gofakeit/v7"
)

type catalogEntry struct {
	sku  string
	name string
}

var defaultCatalog = []catalogEntry{
	{"SKU-001", "Premium Wireless Headphones"},
	{"SKU-002", "Smart Watch Pro"},
	{"SKU-003", "USB-C Cable 2m"},
	{"SKU-004", "Bluetooth Speaker"},
	{"SKU-005", "Laptop Stand Aluminum"},
}

// Source implements both source.SalesSource and source.InventorySource
type Source struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSource creates a generator. A zero seed produces random data.
func NewSource(seed uint64) *Source {
	return &Source{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// FetchOrders returns one order per day over the window, each with a single
// line item for sku.
func (s *Source) FetchOrders(ctx context.Context, sku string, windowDays int) ([]source.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if windowDays <= 0 {
		windowDays = 30
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().UTC()
	orders := make([]source.Order, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		day := today.AddDate(0, 0, -i)
		created := time.Date(day.Year(), day.Month(), day.Day(), 10, s.faker.IntRange(0, 59), 0, 0, time.UTC)
		quantity := s.faker.IntRange(1, 5)
		unitPrice := s.faker.Float64Range(99.99, 149.99)

		orders = append(orders, source.Order{
			ID:          5000000000 + int64(s.faker.IntRange(0, 999999)),
			Name:        fmt.Sprintf("#%d", 1000+i),
			OrderNumber: 1000 + i,
			CreatedAt:   created.Format(time.RFC3339),
			Currency:    "USD",
			TotalPrice:  fmt.Sprintf("%.2f", unitPrice*float64(quantity)*1.08),
			Email:       s.faker.Email(),
			LineItems: []source.LineItem{{
				ID:        2000000000 + int64(s.faker.IntRange(0, 999999)),
				ProductID: 3000000000 + int64(s.faker.IntRange(0, 999999)),
				Title:     s.faker.ProductName(),
				SKU:       sku,
				Quantity:  quantity,
				Price:     fmt.Sprintf("%.2f", unitPrice),
			}},
		})
	}
	return orders, nil
}

// FetchInventory returns a single-product payload for sku spread over two warehouses.
func (s *Source) FetchInventory(ctx context.Context, sku string) (*source.InventoryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("%d", s.faker.IntRange(10000, 99999))
	product := s.product(id, sku, "Sample Product Name", s.faker.IntRange(10, 109), 1)
	return &source.InventoryResponse{
		Status:   source.StatusSuccess,
		Products: map[string]source.InventoryProduct{id: product},
	}, nil
}

// FetchAllProducts returns the fixed demo catalog with random stock levels.
func (s *Source) FetchAllProducts(ctx context.Context) (*source.InventoryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products := make(map[string]source.InventoryProduct, len(defaultCatalog))
	for i, entry := range defaultCatalog {
		id := fmt.Sprintf("%d", 10000+i)
		products[id] = s.product(id, entry.sku, entry.name, s.faker.IntRange(10, 159), i+1)
	}
	return &source.InventoryResponse{Status: source.StatusSuccess, Products: products}, nil
}

func (s *Source) product(id, sku, name string, mainStock, shelf int) source.InventoryProduct {
	retail := 50 + float64(shelf*20) + s.faker.Float64Range(0, 50)
	wholesale := 30 + float64(shelf*15) + s.faker.Float64Range(0, 30)

	return source.InventoryProduct{
		ProductID:           id,
		EAN:                 s.faker.Numerify("590##########"),
		SKU:                 sku,
		Name:                name,
		Quantity:            mainStock,
		PriceBrutto:         &retail,
		PriceWholesaleNetto: &wholesale,
		Stock: map[domain.WarehouseID]int{
			"bl_1234": mainStock,
			"bl_5678": s.faker.IntRange(0, 49),
		},
		Locations: map[domain.WarehouseID]string{
			"bl_1234": fmt.Sprintf("A-%d-%02d", shelf, s.faker.IntRange(1, 20)),
			"bl_5678": fmt.Sprintf("B-%d-%02d", shelf, s.faker.IntRange(1, 20)),
		},
	}
}

var (
	_ source.SalesSource     = (*Source)(nil)
	_ source.InventorySource = (*Source)(nil)
)
