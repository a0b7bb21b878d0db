package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/wellnourish/internal/config"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
)

// RedisPlanCache keeps the latest plan per user in Redis
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPlanCache connects to Redis and verifies the connection
func NewRedisPlanCache(cfg config.RedisConfig) (*RedisPlanCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPlanCacheWithClient(client, cfg.LatestPlanTTL), nil
}

// NewRedisPlanCacheWithClient wraps an existing client. A zero ttl keeps
// entries until they are replaced or cleared.
func NewRedisPlanCacheWithClient(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	return &RedisPlanCache{client: client, ttl: ttl}
}

func latestPlanKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:latest_plan", userID)
}

// SetLatest replaces the cached plan for a user
func (c *RedisPlanCache) SetLatest(ctx context.Context, userID uuid.UUID, plan domain.CachedPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode cached plan: %w", err)
	}
	if err := c.client.Set(ctx, latestPlanKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store latest plan: %w", err)
	}
	return nil
}

// GetLatest returns the cached plan, or false when there is none
func (c *RedisPlanCache) GetLatest(ctx context.Context, userID uuid.UUID) (*domain.CachedPlan, bool, error) {
	data, err := c.client.Get(ctx, latestPlanKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read latest plan: %w", err)
	}

	var plan domain.CachedPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached plan: %w", err)
	}
	return &plan, true, nil
}

// ClearLatest removes the cached plan for a user
func (c *RedisPlanCache) ClearLatest(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, latestPlanKey(userID)).Err()
}

// Close closes the Redis connection
func (c *RedisPlanCache) Close() error {
	return c.client.Close()
}
