package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
)

type memoryEntry struct {
	plan      domain.CachedPlan
	expiresAt time.Time
}

// MemoryPlanCache keeps the latest plan per user in process memory. It is
// used when no Redis host is configured, so entries do not survive restarts.
type MemoryPlanCache struct {
	entries map[uuid.UUID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemoryPlanCache creates an in-memory cache. A zero ttl disables expiry.
func NewMemoryPlanCache(ttl time.Duration) *MemoryPlanCache {
	return &MemoryPlanCache{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryPlanCache) SetLatest(_ context.Context, userID uuid.UUID, plan domain.CachedPlan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := memoryEntry{plan: plan}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.entries[userID] = entry
	return nil
}

func (c *MemoryPlanCache) GetLatest(_ context.Context, userID uuid.UUID) (*domain.CachedPlan, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, exists := c.entries[userID]
	if !exists {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	plan := entry.plan
	return &plan, true, nil
}

func (c *MemoryPlanCache) ClearLatest(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}
