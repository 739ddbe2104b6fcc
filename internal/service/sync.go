package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/andresuchdata/reorder-advisor/internal/cache"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/metrics"
	"github.com/andresuchdata/reorder-advisor/internal/repository"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SyncReport counts the outcome of one catalog sync run.
type SyncReport struct {
	Fetched int `json:"fetched"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
}

type SyncService struct {
	inventory       source.InventorySource
	catalog         repository.ProductRepository
	recommendations cache.RecommendationCache
	summaries       cache.SummaryCache
	metrics         *metrics.Metrics
}

func NewSyncService(
	inventory source.InventorySource,
	catalog repository.ProductRepository,
	recommendations cache.RecommendationCache,
	summaries cache.SummaryCache,
	m *metrics.Metrics,
) *SyncService {
	if recommendations == nil {
		recommendations = cache.NewNoopRecommendationCache()
	}
	if summaries == nil {
		summaries = cache.NewNoopSummaryCache()
	}
	return &SyncService{
		inventory:       inventory,
		catalog:         catalog,
		recommendations: recommendations,
		summaries:       summaries,
		metrics:         m,
	}
}

// SyncProducts copies every inventory product into the catalog. A failing
// product is counted and logged; only a failed listing aborts the run.
func (s *SyncService) SyncProducts(ctx context.Context) (SyncReport, error) {
	log.Info().Msg("sync: fetching all products from inventory source")

	resp, err := s.inventory.FetchAllProducts(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("fetch all products: %w", err)
	}
	if resp.Status != source.StatusSuccess {
		return SyncReport{}, fmt.Errorf("inventory source returned status %q: %w", resp.Status, domain.ErrUpstream)
	}

	report := SyncReport{Fetched: len(resp.Products)}
	if report.Fetched == 0 {
		log.Warn().Msg("sync: no products returned from inventory source")
		return report, nil
	}

	ids := make([]string, 0, len(resp.Products))
	for id := range resp.Products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		p := resp.Products[id]
		if err := s.syncProduct(ctx, p); err != nil {
			report.Failed++
			log.Error().Err(err).Str("sku", p.SKU).Str("product_id", id).Msg("sync: failed to sync product")
			continue
		}
		report.Synced++
		log.Debug().Str("sku", p.SKU).Str("name", p.Name).Msg("sync: product synced")
	}

	s.metrics.RecordSync(report.Synced, report.Failed)

	if report.Synced > 0 {
		if err := s.recommendations.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("sync: cache invalidate recommendations failed")
		}
		if err := s.summaries.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("sync: cache invalidate summaries failed")
		}
	}

	log.Info().Int("synced", report.Synced).Int("failed", report.Failed).Msg("sync: product synchronization completed")
	return report, nil
}

func (s *SyncService) syncProduct(ctx context.Context, p source.InventoryProduct) error {
	if p.SKU == "" {
		return fmt.Errorf("product has no sku: %w", domain.ErrInvalidInput)
	}

	product := &domain.Product{
		SKU:          p.SKU,
		Name:         p.Name,
		UnitCost:     unitCost(p),
		LeadTimeDays: leadTimeForStock(p.Stock),
	}
	_, err := s.catalog.UpsertBySKU(ctx, product)
	return err
}

func unitCost(p source.InventoryProduct) decimal.Decimal {
	if p.PriceWholesaleNetto == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*p.PriceWholesaleNetto)
}

// leadTimeForStock estimates supplier lead time from how well stocked a
// product already is.
func leadTimeForStock(stock map[domain.WarehouseID]int) int {
	if len(stock) == 0 {
		return 30
	}
	total := 0
	for _, qty := range stock {
		total += qty
	}
	switch {
	case total > 100:
		return 7
	case total > 50:
		return 14
	default:
		return 21
	}
}
