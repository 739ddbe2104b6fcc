package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/cache"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/metrics"
	"github.com/andresuchdata/reorder-advisor/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Recommender interface {
	RequestRecommendation(ctx context.Context, input domain.ForecastInput) domain.RecommendationResult
}

type Forecaster interface {
	Calculate(input domain.ForecastInput, daysUntilStockout, suggestedOrderQuantity int) domain.FinancialMetrics
}

type AdviceService struct {
	aggregator  Aggregator
	recommender Recommender
	forecaster  Forecaster
	cache       cache.RecommendationCache
	archive     storage.AdviceArchive
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewAdviceService(
	aggregator Aggregator,
	recommender Recommender,
	forecaster Forecaster,
	cacheImpl cache.RecommendationCache,
	archive storage.AdviceArchive,
	m *metrics.Metrics,
) *AdviceService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRecommendationCache()
	}
	if archive == nil {
		archive = storage.NewNoopAdviceArchive()
	}
	return &AdviceService{
		aggregator:  aggregator,
		recommender: recommender,
		forecaster:  forecaster,
		cache:       cacheImpl,
		archive:     archive,
		metrics:     m,
		now:         time.Now,
	}
}

// Advise runs the full flow for one SKU. Only aggregation errors escape;
// reasoning failures surface as sentinel decisions inside the response.
func (s *AdviceService) Advise(ctx context.Context, sku string) (*domain.AdviceResponse, error) {
	input, err := s.aggregator.Aggregate(ctx, sku)
	if err != nil {
		return nil, err
	}

	rec := s.recommendation(ctx, input)
	s.metrics.RecordDecision(rec.Decision)

	financials := s.forecaster.Calculate(input, rec.DaysUntilStockout, rec.SuggestedOrderQuantity)

	resp := &domain.AdviceResponse{
		RequestID:      uuid.NewString(),
		SKU:            sku,
		Analysis:       analysisLine(input),
		Recommendation: rec,
		Financials:     financials,
		GeneratedAt:    s.now().UTC(),
		TTLHours:       rec.TTLHours,
	}

	if err := s.archive.Archive(ctx, resp); err != nil {
		log.Warn().Err(err).Str("sku", sku).Str("request_id", resp.RequestID).Msg("advice: archive failed")
	}

	return resp, nil
}

func (s *AdviceService) recommendation(ctx context.Context, input domain.ForecastInput) domain.RecommendationResult {
	cached, ok, err := s.cache.Get(ctx, input.SKU)
	if err != nil {
		log.Warn().Err(err).Str("sku", input.SKU).Msg("advice: cache get recommendation failed")
	}
	s.metrics.RecordCacheLookup(ok)
	if ok && cached != nil {
		return *cached
	}

	rec := s.recommender.RequestRecommendation(ctx, input)
	if rec.Informative() {
		if err := s.cache.Set(ctx, input.SKU, rec); err != nil {
			log.Warn().Err(err).Str("sku", input.SKU).Msg("advice: cache set recommendation failed")
		}
	}
	return rec
}

func analysisLine(input domain.ForecastInput) string {
	return fmt.Sprintf("Analysis for %s (%s) - Current stock: %d units, Lead time: %d days",
		input.ProductName, input.SKU, input.Stock.Quantity, input.LeadTimeDays)
}
