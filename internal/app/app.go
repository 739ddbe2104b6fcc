// Package app wires configuration, storage, upstream sources and services
// into the object graph shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/reorder-advisor/internal/advisor"
	"github.com/andresuchdata/reorder-advisor/internal/cache"
	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/forecast"
	"github.com/andresuchdata/reorder-advisor/internal/llm"
	"github.com/andresuchdata/reorder-advisor/internal/metrics"
	"github.com/andresuchdata/reorder-advisor/internal/repository"
	"github.com/andresuchdata/reorder-advisor/internal/repository/postgres"
	"github.com/andresuchdata/reorder-advisor/internal/service"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/andresuchdata/reorder-advisor/internal/source/baselinker"
	"github.com/andresuchdata/reorder-advisor/internal/source/mock"
	"github.com/andresuchdata/reorder-advisor/internal/source/shopify"
	"github.com/andresuchdata/reorder-advisor/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	ModeMock = "mock"
	ModeLive = "live"
)

type App struct {
	Catalog  repository.ProductRepository
	Sessions repository.ChatSessionRepository

	Aggregator *service.AggregatorService
	Advice     *service.AdviceService
	Sync       *service.SyncService
	Summary    *service.SummaryService
	Chat       *service.ChatService

	Metrics *metrics.Metrics
}

// Sources holds the upstream implementations selected by SOURCES_MODE.
type Sources struct {
	Sales     source.SalesSource
	Inventory source.InventorySource
}

func NewSources(cfg *config.Config) (Sources, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Sources.Mode)) {
	case "", ModeMock:
		gen := mock.NewSource(cfg.Sources.MockSeed)
		return Sources{Sales: gen, Inventory: gen}, nil
	case ModeLive:
		sales, err := shopify.NewClient(cfg.Shopify)
		if err != nil {
			return Sources{}, err
		}
		inventory, err := baselinker.NewClient(cfg.Baselinker)
		if err != nil {
			return Sources{}, err
		}
		return Sources{Sales: sales, Inventory: inventory}, nil
	}
	return Sources{}, fmt.Errorf("unknown sources mode %q", cfg.Sources.Mode)
}

// New builds every service on top of db. Cache and archive failures degrade to
// their noop implementations rather than aborting startup.
func New(ctx context.Context, cfg *config.Config, db *postgres.DB) (*App, error) {
	sources, err := NewSources(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure sources: %w", err)
	}
	log.Info().Str("mode", cfg.Sources.Mode).Msg("app: upstream sources configured")

	m := metrics.New()

	recCache, err := cache.NewRecommendationCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("app: recommendation cache unavailable, continuing without it")
		recCache = cache.NewNoopRecommendationCache()
	}
	summaryCache, err := cache.NewSummaryCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("app: summary cache unavailable, continuing without it")
		summaryCache = cache.NewNoopSummaryCache()
	}

	archive := storage.NewNoopAdviceArchive()
	if cfg.Archive.Enabled {
		store, err := storage.NewMinioClient(ctx, cfg.Archive)
		if err != nil {
			log.Warn().Err(err).Msg("app: advice archive unavailable, continuing without it")
		} else {
			archive = storage.NewAdviceArchive(store)
		}
	}

	catalog := postgres.NewProductRepository(db)
	sessions := postgres.NewChatSessionRepository(db)

	bridge := advisor.NewBridge(llm.NewOpenAIClient(cfg.LLM), cfg.Sources.SalesWindowDays)
	calculator := forecast.NewCalculator(forecast.ConfigFromSettings(cfg.Forecast))

	aggregator := service.NewAggregatorService(catalog, sources.Sales, sources.Inventory, cfg.Sources.SalesWindowDays)

	return &App{
		Catalog:    catalog,
		Sessions:   sessions,
		Aggregator: aggregator,
		Advice:     service.NewAdviceService(aggregator, bridge, calculator, recCache, archive, m),
		Sync:       service.NewSyncService(sources.Inventory, catalog, recCache, summaryCache, m),
		Summary:    service.NewSummaryService(catalog, sources.Sales, sources.Inventory, summaryCache, cfg.Sources.SalesWindowDays),
		Chat:       service.NewChatService(aggregator, bridge, sessions, cfg.Sessions.DefaultTTLHours, m),
		Metrics:    m,
	}, nil
}
