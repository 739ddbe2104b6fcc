package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/reconcile"
	"github.com/andresuchdata/reorder-advisor/internal/repository"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"golang.org/x/sync/errgroup"
)

const defaultSalesWindowDays = 30

// Aggregator builds the reconciled bundle for one SKU.
type Aggregator interface {
	Aggregate(ctx context.Context, sku string) (domain.ForecastInput, error)
}

type AggregatorService struct {
	catalog    repository.ProductRepository
	sales      source.SalesSource
	inventory  source.InventorySource
	windowDays int
}

func NewAggregatorService(catalog repository.ProductRepository, sales source.SalesSource, inventory source.InventorySource, windowDays int) *AggregatorService {
	if windowDays <= 0 {
		windowDays = defaultSalesWindowDays
	}
	return &AggregatorService{
		catalog:    catalog,
		sales:      sales,
		inventory:  inventory,
		windowDays: windowDays,
	}
}

// Aggregate looks the SKU up in the catalog, then fetches its sales feed and
// stock snapshot concurrently and reconciles both.
func (s *AggregatorService) Aggregate(ctx context.Context, sku string) (domain.ForecastInput, error) {
	product, err := s.catalog.FindBySKU(ctx, sku)
	if err != nil {
		return domain.ForecastInput{}, err
	}

	var (
		orders    []source.Order
		inventory *source.InventoryResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.sales.FetchOrders(gctx, sku, s.windowDays)
		if err != nil {
			return fmt.Errorf("fetch orders for %s: %w", sku, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		inventory, err = s.inventory.FetchInventory(gctx, sku)
		if err != nil {
			return fmt.Errorf("fetch inventory for %s: %w", sku, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ForecastInput{}, err
	}

	sales, err := reconcile.ReconcileSales(sku, orders)
	if err != nil {
		return domain.ForecastInput{}, err
	}
	stock, err := reconcile.ReconcileStock(sku, inventory)
	if err != nil {
		return domain.ForecastInput{}, err
	}

	return domain.NewForecastInput(*product, sales, stock), nil
}

var _ Aggregator = (*AggregatorService)(nil)
