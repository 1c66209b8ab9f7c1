package integration

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/adapter/cache"
	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/mocks"
	"github.com/voltgrid/opsconsole/internal/service/snapshot"
)

func TestRedis_CacheAdapter(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}

	FlushRedis(t, env.Redis)

	c, err := cache.NewRedisCache(env.RedisURL, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	ctx := context.Background()

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "test:key", []byte("test-value"), time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		val, err := c.Get(ctx, "test:key")
		if err != nil {
			t.Fatalf("Failed to get key: %v", err)
		}
		if string(val) != "test-value" {
			t.Errorf("Expected 'test-value', got '%s'", val)
		}
	})

	t.Run("MissReturnsNil", func(t *testing.T) {
		val, err := c.Get(ctx, "test:missing")
		if err != nil {
			t.Fatalf("Miss should not error: %v", err)
		}
		if val != nil {
			t.Errorf("Expected nil on miss, got %q", val)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := c.Set(ctx, "test:expiring", []byte("value"), 100*time.Millisecond); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		time.Sleep(150 * time.Millisecond)

		val, err := c.Get(ctx, "test:expiring")
		if err != nil {
			t.Fatalf("Expired key should read as miss: %v", err)
		}
		if val != nil {
			t.Error("Key should have expired")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := c.Set(ctx, "test:delete", []byte("value"), time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}
		if err := c.Delete(ctx, "test:delete"); err != nil {
			t.Fatalf("Failed to delete key: %v", err)
		}

		val, err := c.Get(ctx, "test:delete")
		if err != nil || val != nil {
			t.Error("Key should have been deleted")
		}
	})
}

// TestRedis_SnapshotCacheAside runs the snapshot layer against real Redis:
// the first read hits the repository, the second is served from cache.
func TestRedis_SnapshotCacheAside(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}

	FlushRedis(t, env.Redis)

	c, err := cache.NewRedisCache(env.RedisURL, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}

	calls := 0
	repo := &mocks.MockAnalyticsRepository{
		MonthlyUsageFunc: func(ctx context.Context, months int) ([]domain.UsagePeriodRecord, error) {
			calls++
			return []domain.UsagePeriodRecord{{Label: "2026-08", TotalEnergy: 42, SessionCount: 7}}, nil
		},
	}
	svc := snapshot.NewService(repo, c, nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := svc.UsageSnapshot(ctx)
	if err != nil {
		t.Fatalf("First read failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("Expected one repository read, got %d", calls)
	}

	second, err := svc.UsageSnapshot(ctx)
	if err != nil {
		t.Fatalf("Second read failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Second read should be served from cache, repository reads: %d", calls)
	}
	if len(second.Monthly) != 1 || second.Monthly[0].TotalEnergy != first.Monthly[0].TotalEnergy {
		t.Error("Cached snapshot should match the original")
	}

	// Refresh invalidates and rebuilds
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("Refresh should re-read the repository, reads: %d", calls)
	}
}
