package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/shopspring/decimal"
)

type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]domain.Product
	upserts  []domain.Product
	failSKU  string
	listErr  error
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	c := &fakeCatalog{products: map[string]domain.Product{}}
	for _, p := range products {
		c.products[p.SKU] = p
	}
	return c
}

func (c *fakeCatalog) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[sku]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", sku, domain.ErrNotFound)
	}
	return &p, nil
}

func (c *fakeCatalog) FindAll(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (c *fakeCatalog) UpsertBySKU(ctx context.Context, p *domain.Product) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.SKU == c.failSKU {
		return 0, fmt.Errorf("constraint violation")
	}
	c.upserts = append(c.upserts, *p)
	c.products[p.SKU] = *p
	return int64(len(c.upserts)), nil
}

type fakeSales struct {
	orders map[string][]source.Order
	err    map[string]error
}

func (f *fakeSales) FetchOrders(ctx context.Context, sku string, windowDays int) ([]source.Order, error) {
	if err := f.err[sku]; err != nil {
		return nil, err
	}
	return f.orders[sku], nil
}

type fakeInventory struct {
	bySKU map[string]*source.InventoryResponse
	all   *source.InventoryResponse
	err   error
}

func (f *fakeInventory) FetchInventory(ctx context.Context, sku string) (*source.InventoryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if resp, ok := f.bySKU[sku]; ok {
		return resp, nil
	}
	return &source.InventoryResponse{Status: source.StatusSuccess, Products: map[string]source.InventoryProduct{}}, nil
}

func (f *fakeInventory) FetchAllProducts(ctx context.Context) (*source.InventoryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.all, nil
}

type fakeRecommender struct {
	result domain.RecommendationResult
	calls  int
}

func (f *fakeRecommender) RequestRecommendation(ctx context.Context, input domain.ForecastInput) domain.RecommendationResult {
	f.calls++
	return f.result
}

type fakeRecommendationCache struct {
	stored map[string]domain.RecommendationResult
	sets   int
	purges int
}

func newFakeRecommendationCache() *fakeRecommendationCache {
	return &fakeRecommendationCache{stored: map[string]domain.RecommendationResult{}}
}

func (c *fakeRecommendationCache) Get(ctx context.Context, sku string) (*domain.RecommendationResult, bool, error) {
	r, ok := c.stored[sku]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (c *fakeRecommendationCache) Set(ctx context.Context, sku string, r domain.RecommendationResult) error {
	c.sets++
	c.stored[sku] = r
	return nil
}

func (c *fakeRecommendationCache) Invalidate(ctx context.Context, sku string) error {
	delete(c.stored, sku)
	return nil
}

func (c *fakeRecommendationCache) InvalidateAll(ctx context.Context) error {
	c.purges++
	c.stored = map[string]domain.RecommendationResult{}
	return nil
}

type fakeSessions struct {
	sessions map[string]*domain.ChatSession
	saved    []domain.ChatMessage
	expired  int64
}

func (f *fakeSessions) FindActiveBySKU(ctx context.Context, sku string) (*domain.ChatSession, error) {
	s, ok := f.sessions[sku]
	if !ok {
		return nil, fmt.Errorf("chat session %s: %w", sku, domain.ErrNotFound)
	}
	return s, nil
}

func (f *fakeSessions) Save(ctx context.Context, sku string, messages []domain.ChatMessage, expiresAt time.Time) (*domain.ChatSession, error) {
	f.saved = messages
	s := &domain.ChatSession{SKU: sku, ExpiresAt: expiresAt}
	if f.sessions == nil {
		f.sessions = map[string]*domain.ChatSession{}
	}
	f.sessions[sku] = s
	return s, nil
}

func (f *fakeSessions) DeleteBySKU(ctx context.Context, sku string) error {
	delete(f.sessions, sku)
	return nil
}

func (f *fakeSessions) DeleteExpired(ctx context.Context) (int64, error) {
	return f.expired, nil
}

func widget() domain.Product {
	return domain.Product{ID: 1, SKU: "SKU-1", Name: "Widget", UnitCost: decimal.NewFromInt(60), LeadTimeDays: 14}
}

func widgetOrders() []source.Order {
	return []source.Order{
		{ID: 1, CreatedAt: "2024-03-01T10:00:00Z", LineItems: []source.LineItem{{SKU: "SKU-1", Quantity: 30, Price: "100.00"}}},
		{ID: 2, CreatedAt: "2024-03-15T10:00:00Z", LineItems: []source.LineItem{
			{SKU: "OTHER", Quantity: 5, Price: "9.00"},
			{SKU: "SKU-1", Quantity: 30, Price: "100.00"},
		}},
	}
}

func widgetInventory() *source.InventoryResponse {
	return &source.InventoryResponse{
		Status: source.StatusSuccess,
		Products: map[string]source.InventoryProduct{
			"100": {
				ProductID: "100",
				SKU:       "SKU-1",
				Name:      "Widget",
				Stock:     map[domain.WarehouseID]int{"bl_1": 50},
				Locations: map[domain.WarehouseID]string{"bl_1": "Main"},
			},
		},
	}
}
