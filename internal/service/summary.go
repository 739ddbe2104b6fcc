package service

import (
	"context"

	"github.com/andresuchdata/reorder-advisor/internal/cache"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/reconcile"
	"github.com/andresuchdata/reorder-advisor/internal/repository"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const summaryConcurrency = 4

type SummaryService struct {
	catalog    repository.ProductRepository
	sales      source.SalesSource
	inventory  source.InventorySource
	cache      cache.SummaryCache
	windowDays int
}

func NewSummaryService(
	catalog repository.ProductRepository,
	sales source.SalesSource,
	inventory source.InventorySource,
	cacheImpl cache.SummaryCache,
	windowDays int,
) *SummaryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSummaryCache()
	}
	if windowDays <= 0 {
		windowDays = defaultSalesWindowDays
	}
	return &SummaryService{
		catalog:    catalog,
		sales:      sales,
		inventory:  inventory,
		cache:      cacheImpl,
		windowDays: windowDays,
	}
}

// ListSummaries enriches every catalog product with live stock and recent
// sales. Upstream failures degrade a single summary to zeros.
func (s *SummaryService) ListSummaries(ctx context.Context) ([]domain.ProductSummary, error) {
	if summaries, ok, err := s.cache.GetSummaries(ctx); err == nil && ok {
		return summaries, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("summary: cache get failed")
	}

	products, err := s.catalog.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ProductSummary, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)
	for i, p := range products {
		g.Go(func() error {
			summaries[i] = s.summarize(gctx, p)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.cache.SetSummaries(ctx, summaries); err != nil {
		log.Warn().Err(err).Msg("summary: cache set failed")
	}

	return summaries, nil
}

func (s *SummaryService) summarize(ctx context.Context, p domain.Product) domain.ProductSummary {
	summary := domain.ProductSummary{Product: p, MonthlyProfit: decimal.Zero}

	orders, err := s.sales.FetchOrders(ctx, p.SKU, s.windowDays)
	if err != nil {
		log.Warn().Err(err).Str("sku", p.SKU).Msg("summary: failed to fetch sales")
		return summary
	}
	sales, err := reconcile.ReconcileSales(p.SKU, orders)
	if err != nil {
		log.Warn().Err(err).Str("sku", p.SKU).Msg("summary: failed to reconcile sales")
		return summary
	}

	input := domain.NewForecastInput(p, sales, domain.EmptyStockSnapshot(p.SKU))
	units := input.TotalUnitsSold()
	cost := p.UnitCost.Mul(decimal.NewFromInt(int64(units)))

	summary.StockQuantity = s.stockQuantity(ctx, p.SKU)
	summary.TotalQuantitySold = units
	summary.MonthlyProfit = input.TotalRevenue().Sub(cost).Round(2)
	return summary
}

// stockQuantity reports 0 on any inventory failure.
func (s *SummaryService) stockQuantity(ctx context.Context, sku string) int {
	resp, err := s.inventory.FetchInventory(ctx, sku)
	if err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("summary: failed to fetch stock")
		return 0
	}
	if resp == nil || resp.Status != source.StatusSuccess {
		return 0
	}
	product, ok := reconcile.FindProduct(sku, resp)
	if !ok {
		return 0
	}
	return product.TotalStock()
}
