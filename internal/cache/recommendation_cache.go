package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/redis/go-redis/v9"
)

const recommendationKeyPrefix = "advice:recommendation:"

// RecommendationCache keeps reasoning-service results per SKU for the TTL the
// result itself asks for.
type RecommendationCache interface {
	Get(ctx context.Context, sku string) (*domain.RecommendationResult, bool, error)
	Set(ctx context.Context, sku string, result domain.RecommendationResult) error
	Invalidate(ctx context.Context, sku string) error
	InvalidateAll(ctx context.Context) error
}

type redisRecommendationCache struct {
	client *redis.Client
}

type noopRecommendationCache struct{}

func NewRecommendationCache(cfg config.CacheConfig) (RecommendationCache, error) {
	if !cfg.Enabled {
		return &noopRecommendationCache{}, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisRecommendationCache{client: client}, nil
}

func NewNoopRecommendationCache() RecommendationCache {
	return &noopRecommendationCache{}
}

func (c *redisRecommendationCache) Get(ctx context.Context, sku string) (*domain.RecommendationResult, bool, error) {
	payload, err := c.client.Get(ctx, recommendationKey(sku)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.RecommendationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode recommendation cache: %w", err)
	}

	return &result, true, nil
}

// Set ignores sentinel results; only parsed replies are worth replaying.
func (c *redisRecommendationCache) Set(ctx context.Context, sku string, result domain.RecommendationResult) error {
	ttl := recommendationTTL(result)
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode recommendation cache: %w", err)
	}

	if err := c.client.Set(ctx, recommendationKey(sku), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisRecommendationCache) Invalidate(ctx context.Context, sku string) error {
	if err := c.client.Del(ctx, recommendationKey(sku)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *redisRecommendationCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, recommendationKeyPrefix)
}

func (n *noopRecommendationCache) Get(ctx context.Context, sku string) (*domain.RecommendationResult, bool, error) {
	return nil, false, nil
}

func (n *noopRecommendationCache) Set(ctx context.Context, sku string, result domain.RecommendationResult) error {
	return nil
}

func (n *noopRecommendationCache) Invalidate(ctx context.Context, sku string) error {
	return nil
}

func (n *noopRecommendationCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func recommendationKey(sku string) string {
	return recommendationKeyPrefix + strings.TrimSpace(sku)
}

func recommendationTTL(result domain.RecommendationResult) time.Duration {
	if !result.Informative() || result.TTLHours <= 0 {
		return 0
	}
	return time.Duration(result.TTLHours) * time.Hour
}
