package services

import (
	"fmt"
	"testing"
	"time"

	"lifeboard/internal/models"
)

func testContext(userID string) *models.UnifiedUserContext {
	return &models.UnifiedUserContext{UserID: userID, GeneratedAt: time.Now()}
}

func TestContextCacheGetSet(t *testing.T) {
	cache := NewContextCache(time.Minute, 10)

	if _, ok := cache.Get("u1"); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Set("u1", testContext("u1"))
	got, ok := cache.Get("u1")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.UserID != "u1" {
		t.Errorf("got context for %q, want u1", got.UserID)
	}
}

func TestContextCacheTTLExpiry(t *testing.T) {
	cache := NewContextCache(time.Minute, 10)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set("u1", testContext("u1"))

	// Just before expiry the entry is still valid
	now = now.Add(59 * time.Second)
	if _, ok := cache.Get("u1"); !ok {
		t.Fatal("entry expired too early")
	}

	// At exactly now+TTL the entry is no longer usable
	now = now.Add(time.Second)
	if _, ok := cache.Get("u1"); ok {
		t.Fatal("entry should be expired at now+TTL")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry not dropped on access, Len = %d", cache.Len())
	}
}

func TestContextCacheLRUEviction(t *testing.T) {
	cache := NewContextCache(time.Minute, 3)

	cache.Set("u1", testContext("u1"))
	cache.Set("u2", testContext("u2"))
	cache.Set("u3", testContext("u3"))

	// Touch u1 so u2 becomes the least recently used
	cache.Get("u1")

	cache.Set("u4", testContext("u4"))

	if _, ok := cache.Get("u2"); ok {
		t.Error("u2 should have been evicted as least recently used")
	}
	for _, id := range []string{"u1", "u3", "u4"} {
		if _, ok := cache.Get(id); !ok {
			t.Errorf("%s should still be cached", id)
		}
	}
	if cache.Len() != 3 {
		t.Errorf("Len = %d, want 3", cache.Len())
	}
}

func TestContextCacheSetUpdatesInPlace(t *testing.T) {
	cache := NewContextCache(time.Minute, 2)

	cache.Set("u1", testContext("u1"))
	cache.Set("u2", testContext("u2"))
	cache.Set("u1", testContext("u1")) // refresh, not a new slot

	if cache.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cache.Len())
	}

	// u1 is now most recent, so inserting u3 evicts u2
	cache.Set("u3", testContext("u3"))
	if _, ok := cache.Get("u2"); ok {
		t.Error("u2 should have been evicted")
	}
	if _, ok := cache.Get("u1"); !ok {
		t.Error("u1 should survive the eviction")
	}
}

func TestContextCacheDeleteAndClear(t *testing.T) {
	cache := NewContextCache(time.Minute, 10)

	cache.Set("u1", testContext("u1"))
	cache.Set("u2", testContext("u2"))

	cache.Delete("u1")
	if _, ok := cache.Get("u1"); ok {
		t.Error("u1 should be gone after Delete")
	}
	if _, ok := cache.Get("u2"); !ok {
		t.Error("u2 should be untouched by Delete(u1)")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", cache.Len())
	}
}

func TestContextCachePruneExpired(t *testing.T) {
	cache := NewContextCache(time.Minute, 10)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set("old1", testContext("old1"))
	cache.Set("old2", testContext("old2"))

	now = now.Add(30 * time.Second)
	cache.Set("fresh", testContext("fresh"))

	now = now.Add(45 * time.Second) // old* past TTL, fresh not
	pruned := cache.PruneExpired()
	if pruned != 2 {
		t.Errorf("PruneExpired = %d, want 2", pruned)
	}
	if _, ok := cache.Get("fresh"); !ok {
		t.Error("fresh entry should survive pruning")
	}

	stats := cache.Stats()
	if stats.TotalEntries != 1 || stats.ValidEntries != 1 || stats.ExpiredEntries != 0 {
		t.Errorf("Stats = %+v, want 1 total, 1 valid, 0 expired", stats)
	}
}

func TestContextCacheCapacityNeverExceeded(t *testing.T) {
	cache := NewContextCache(time.Minute, 5)
	for i := 0; i < 50; i++ {
		cache.Set(fmt.Sprintf("u%d", i), testContext("u"))
	}
	if cache.Len() > 5 {
		t.Errorf("Len = %d, capacity 5 exceeded", cache.Len())
	}
}
