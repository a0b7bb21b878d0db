package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
)

func TestMemoryPlanCacheSetGetClear(t *testing.T) {
	c := NewMemoryPlanCache(0)
	ctx := context.Background()
	userID := uuid.New()

	if _, ok, err := c.GetLatest(ctx, userID); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	planID := uuid.New()
	if err := c.SetLatest(ctx, userID, domain.CachedPlan{PlanID: planID}); err != nil {
		t.Fatalf("SetLatest: %v", err)
	}
	got, ok, err := c.GetLatest(ctx, userID)
	if err != nil || !ok || got.PlanID != planID {
		t.Fatalf("unexpected entry %+v ok=%v err=%v", got, ok, err)
	}

	if _, ok, _ := c.GetLatest(ctx, uuid.New()); ok {
		t.Fatal("plans must be scoped per user")
	}

	if err := c.ClearLatest(ctx, userID); err != nil {
		t.Fatalf("ClearLatest: %v", err)
	}
	if _, ok, _ := c.GetLatest(ctx, userID); ok {
		t.Fatal("expected miss after clear")
	}
}

func TestMemoryPlanCacheExpiry(t *testing.T) {
	c := NewMemoryPlanCache(time.Hour)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	userID := uuid.New()
	_ = c.SetLatest(context.Background(), userID, domain.CachedPlan{PlanID: uuid.New()})

	now = now.Add(59 * time.Minute)
	if _, ok, _ := c.GetLatest(context.Background(), userID); !ok {
		t.Fatal("entry should still be fresh")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.GetLatest(context.Background(), userID); ok {
		t.Fatal("entry should have expired")
	}
}

func TestMemoryPlanCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryPlanCache(0)
	ctx := context.Background()
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.SetLatest(ctx, userID, domain.CachedPlan{PlanID: uuid.New()})
			_, _, _ = c.GetLatest(ctx, userID)
		}()
	}
	wg.Wait()

	if _, ok, _ := c.GetLatest(ctx, userID); !ok {
		t.Fatal("expected an entry after concurrent writes")
	}
}

func TestLatestPlanKey(t *testing.T) {
	id := uuid.MustParse("5b1c8f3e-2a4d-4e6f-9a0b-1c2d3e4f5a6b")
	if got := latestPlanKey(id); got != "user:5b1c8f3e-2a4d-4e6f-9a0b-1c2d3e4f5a6b:latest_plan" {
		t.Fatalf("unexpected key %q", got)
	}
}
