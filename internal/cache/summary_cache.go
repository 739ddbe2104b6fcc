package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/redis/go-redis/v9"
)

const summaryKey = "products:summary:all"

type SummaryCache interface {
	GetSummaries(ctx context.Context) ([]domain.ProductSummary, bool, error)
	SetSummaries(ctx context.Context, summaries []domain.ProductSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSummaryCache struct{}

func NewSummaryCache(cfg config.CacheConfig) (SummaryCache, error) {
	if !cfg.Enabled {
		return &noopSummaryCache{}, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSummaryCache{client: client, ttl: summaryTTL(cfg)}, nil
}

func NewNoopSummaryCache() SummaryCache {
	return &noopSummaryCache{}
}

func (c *redisSummaryCache) GetSummaries(ctx context.Context) ([]domain.ProductSummary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summaries []domain.ProductSummary
	if err := json.Unmarshal(payload, &summaries); err != nil {
		return nil, false, fmt.Errorf("decode product summary cache: %w", err)
	}

	return summaries, true, nil
}

func (c *redisSummaryCache) SetSummaries(ctx context.Context, summaries []domain.ProductSummary) error {
	payload, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("encode product summary cache: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSummaryCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (n *noopSummaryCache) GetSummaries(ctx context.Context) ([]domain.ProductSummary, bool, error) {
	return nil, false, nil
}

func (n *noopSummaryCache) SetSummaries(ctx context.Context, summaries []domain.ProductSummary) error {
	return nil
}

func (n *noopSummaryCache) InvalidateAll(ctx context.Context) error {
	return nil
}
