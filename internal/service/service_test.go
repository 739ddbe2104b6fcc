package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/forecast"
	"github.com/andresuchdata/reorder-advisor/internal/metrics"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/andresuchdata/reorder-advisor/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWidgetAggregator() *AggregatorService {
	return NewAggregatorService(
		newFakeCatalog(widget()),
		&fakeSales{orders: map[string][]source.Order{"SKU-1": widgetOrders()}},
		&fakeInventory{bySKU: map[string]*source.InventoryResponse{"SKU-1": widgetInventory()}},
		30,
	)
}

func TestAggregatorService_Aggregate(t *testing.T) {
	input, err := newWidgetAggregator().Aggregate(context.Background(), "SKU-1")

	require.NoError(t, err)
	assert.Equal(t, "Widget", input.ProductName)
	assert.Equal(t, 14, input.LeadTimeDays)
	require.Len(t, input.Sales, 2)
	assert.Equal(t, 60, input.TotalUnitsSold())
	assert.Equal(t, 50, input.Stock.Quantity)
	assert.Equal(t, "bl_1 (Main): 50", input.Stock.Location)
}

func TestAggregatorService_UnknownSKU(t *testing.T) {
	_, err := newWidgetAggregator().Aggregate(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAggregatorService_UpstreamFailure(t *testing.T) {
	agg := NewAggregatorService(
		newFakeCatalog(widget()),
		&fakeSales{err: map[string]error{"SKU-1": domain.ErrUpstream}},
		&fakeInventory{bySKU: map[string]*source.InventoryResponse{"SKU-1": widgetInventory()}},
		30,
	)

	_, err := agg.Aggregate(context.Background(), "SKU-1")

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestAggregatorService_SKUMissingFromInventory(t *testing.T) {
	agg := NewAggregatorService(
		newFakeCatalog(widget()),
		&fakeSales{},
		&fakeInventory{},
		30,
	)

	_, err := agg.Aggregate(context.Background(), "SKU-1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type memoryArchive struct {
	archived []*domain.AdviceResponse
}

func (m *memoryArchive) Archive(ctx context.Context, resp *domain.AdviceResponse) error {
	m.archived = append(m.archived, resp)
	return nil
}

func (m *memoryArchive) List(ctx context.Context, sku string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func TestAdviceService_Advise(t *testing.T) {
	rec := &fakeRecommender{result: domain.RecommendationResult{
		Decision:               domain.DecisionReorder,
		SuggestedOrderQuantity: 80,
		StockoutRisk:           domain.RiskHigh,
		DaysUntilStockout:      10,
		Reasoning:              "low cover",
		TTLHours:               12,
	}}
	recCache := newFakeRecommendationCache()
	archive := &memoryArchive{}
	svc := NewAdviceService(newWidgetAggregator(), rec, forecast.NewCalculator(forecast.DefaultConfig()), recCache, archive, metrics.New())
	svc.now = func() time.Time { return time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC) }

	resp, err := svc.Advise(context.Background(), "SKU-1")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "SKU-1", resp.SKU)
	assert.Equal(t, "Analysis for Widget (SKU-1) - Current stock: 50 units, Lead time: 14 days", resp.Analysis)
	assert.Equal(t, domain.DecisionReorder, resp.Recommendation.Decision)
	assert.Equal(t, 12, resp.TTLHours)
	assert.Equal(t, time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC), resp.GeneratedAt)
	// 60 units over 15 days at 100.00 with a 10-day horizon
	assert.Equal(t, "4000.00", resp.Financials.ExpectedRevenue.StringFixed(2))
	assert.Equal(t, 1, recCache.sets)
	require.Len(t, archive.archived, 1)

	// second call is served from cache
	_, err = svc.Advise(context.Background(), "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
}

func TestAdviceService_SentinelNotCached(t *testing.T) {
	rec := &fakeRecommender{result: domain.DefaultRecommendation(domain.DecisionError, "Failed to get AI analysis: boom")}
	recCache := newFakeRecommendationCache()
	svc := NewAdviceService(newWidgetAggregator(), rec, forecast.NewCalculator(forecast.DefaultConfig()), recCache, nil, nil)

	resp, err := svc.Advise(context.Background(), "SKU-1")

	require.NoError(t, err)
	assert.Equal(t, domain.DecisionError, resp.Recommendation.Decision)
	assert.Equal(t, 24, resp.TTLHours)
	assert.Equal(t, "0.00", resp.Financials.OpportunityCost.StringFixed(2))
	assert.Zero(t, recCache.sets)
}

func TestAdviceService_NotFound(t *testing.T) {
	svc := NewAdviceService(newWidgetAggregator(), &fakeRecommender{}, forecast.NewCalculator(forecast.DefaultConfig()), nil, nil, nil)

	_, err := svc.Advise(context.Background(), "MISSING")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ptr(f float64) *float64 { return &f }

func TestSyncService_SyncProducts(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.failSKU = "BROKEN"
	inv := &fakeInventory{all: &source.InventoryResponse{
		Status: source.StatusSuccess,
		Products: map[string]source.InventoryProduct{
			"1": {SKU: "BIG", Name: "Big", PriceWholesaleNetto: ptr(12.5), Stock: map[domain.WarehouseID]int{"a": 80, "b": 40}},
			"2": {SKU: "MID", Name: "Mid", Stock: map[domain.WarehouseID]int{"a": 51}},
			"3": {SKU: "LOW", Name: "Low", Stock: map[domain.WarehouseID]int{"a": 50}},
			"4": {SKU: "NONE", Name: "None"},
			"5": {SKU: "BROKEN", Name: "Broken"},
			"6": {SKU: "", Name: "Nameless"},
		},
	}}
	recCache := newFakeRecommendationCache()
	svc := NewSyncService(inv, catalog, recCache, nil, metrics.New())

	report, err := svc.SyncProducts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SyncReport{Fetched: 6, Synced: 4, Failed: 2}, report)
	assert.Equal(t, 1, recCache.purges)

	assert.Equal(t, 7, catalog.products["BIG"].LeadTimeDays)
	assert.True(t, decimal.NewFromFloat(12.5).Equal(catalog.products["BIG"].UnitCost))
	assert.Equal(t, 14, catalog.products["MID"].LeadTimeDays)
	assert.Equal(t, 21, catalog.products["LOW"].LeadTimeDays)
	assert.Equal(t, 30, catalog.products["NONE"].LeadTimeDays)
	assert.True(t, catalog.products["NONE"].UnitCost.IsZero())
}

func TestSyncService_Failures(t *testing.T) {
	svc := NewSyncService(&fakeInventory{err: domain.ErrUpstream}, newFakeCatalog(), nil, nil, nil)
	_, err := svc.SyncProducts(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstream)

	svc = NewSyncService(&fakeInventory{all: &source.InventoryResponse{Status: "ERROR"}}, newFakeCatalog(), nil, nil, nil)
	_, err = svc.SyncProducts(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstream)

	svc = NewSyncService(&fakeInventory{all: &source.InventoryResponse{Status: source.StatusSuccess}}, newFakeCatalog(), nil, nil, nil)
	report, err := svc.SyncProducts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Fetched)
}

func TestLeadTimeForStock(t *testing.T) {
	assert.Equal(t, 30, leadTimeForStock(nil))
	assert.Equal(t, 30, leadTimeForStock(map[domain.WarehouseID]int{}))
	assert.Equal(t, 21, leadTimeForStock(map[domain.WarehouseID]int{"a": 0}))
	assert.Equal(t, 14, leadTimeForStock(map[domain.WarehouseID]int{"a": 100}))
	assert.Equal(t, 7, leadTimeForStock(map[domain.WarehouseID]int{"a": 101}))
}

func TestSummaryService_ListSummaries(t *testing.T) {
	gadget := domain.Product{ID: 2, SKU: "SKU-2", Name: "Gadget", UnitCost: decimal.NewFromInt(5), LeadTimeDays: 7}
	svc := NewSummaryService(
		newFakeCatalog(widget(), gadget),
		&fakeSales{
			orders: map[string][]source.Order{"SKU-1": widgetOrders()},
			err:    map[string]error{"SKU-2": errors.New("timeout")},
		},
		&fakeInventory{bySKU: map[string]*source.InventoryResponse{"SKU-1": widgetInventory()}},
		nil,
		30,
	)

	summaries, err := svc.ListSummaries(context.Background())

	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "SKU-1", summaries[0].SKU)
	assert.Equal(t, 50, summaries[0].StockQuantity)
	assert.Equal(t, 60, summaries[0].TotalQuantitySold)
	// 6000.00 revenue minus 60 x 60.00 cost
	assert.Equal(t, "2400.00", summaries[0].MonthlyProfit.StringFixed(2))

	assert.Equal(t, "SKU-2", summaries[1].SKU)
	assert.Zero(t, summaries[1].StockQuantity)
	assert.Zero(t, summaries[1].TotalQuantitySold)
	assert.True(t, summaries[1].MonthlyProfit.IsZero())
}

func TestSummaryService_CatalogFailure(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.listErr = errors.New("db down")
	svc := NewSummaryService(catalog, &fakeSales{}, &fakeInventory{}, nil, 30)

	_, err := svc.ListSummaries(context.Background())

	assert.Error(t, err)
}

type fakeResponder struct {
	history []domain.ChatMessage
}

func (f *fakeResponder) Chat(ctx context.Context, history []domain.ChatMessage, input domain.ForecastInput) string {
	f.history = history
	return "Reorder " + input.ProductName
}

func TestChatService_Chat(t *testing.T) {
	responder := &fakeResponder{}
	svc := NewChatService(newWidgetAggregator(), responder, &fakeSessions{}, 24, nil)
	msgs := []domain.ChatMessage{{Role: domain.RoleUser, Content: "what now?"}}

	reply, err := svc.Chat(context.Background(), "SKU-1", msgs)

	require.NoError(t, err)
	assert.Equal(t, "Reorder Widget", reply.Response)
	assert.Equal(t, domain.RoleAssistant, reply.Role)
	assert.Equal(t, msgs, responder.history)

	_, err = svc.Chat(context.Background(), "", msgs)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Chat(context.Background(), "MISSING", msgs)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatService_Sessions(t *testing.T) {
	sessions := &fakeSessions{}
	svc := NewChatService(newWidgetAggregator(), &fakeResponder{}, sessions, 24, metrics.New())
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	view, err := svc.GetSession(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Empty(t, view.Messages)
	assert.Nil(t, view.ExpiresAt)

	expires, err := svc.SaveSession(ctx, "SKU-1", []domain.ChatMessage{{Role: "user", Content: "hi"}}, 0)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), expires)

	expires, err = svc.SaveSession(ctx, "SKU-1", nil, 2)
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour), expires)

	sessions.sessions["SKU-1"].SessionData = []byte(`[{"role":"user","content":"hi"}]`)
	view, err = svc.GetSession(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Len(t, view.Messages, 1)
	require.NotNil(t, view.ExpiresAt)
	assert.Equal(t, expires, *view.ExpiresAt)

	require.NoError(t, svc.DeleteSession(ctx, "SKU-1"))
	view, err = svc.GetSession(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Empty(t, view.Messages)

	_, err = svc.SaveSession(ctx, " ", nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatService_CleanupExpired(t *testing.T) {
	svc := NewChatService(newWidgetAggregator(), &fakeResponder{}, &fakeSessions{expired: 3}, 24, metrics.New())

	n, err := svc.CleanupExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestChatService_RunCleanupStopsOnCancel(t *testing.T) {
	svc := NewChatService(newWidgetAggregator(), &fakeResponder{}, &fakeSessions{}, 24, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
