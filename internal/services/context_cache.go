package services

import (
	"container/list"
	"sync"
	"time"

	"lifeboard/internal/models"
)

// Default cache policy for assembled user contexts.
const (
	DefaultContextTTL       = 5 * time.Minute
	DefaultContextCacheSize = 100
)

// CacheStats is the diagnostic snapshot returned by the cache-stats endpoint.
type CacheStats struct {
	TotalEntries   int `json:"total_entries"`
	ValidEntries   int `json:"valid_entries"`
	ExpiredEntries int `json:"expired_entries"`
	Capacity       int `json:"capacity"`
	TTLSeconds     int `json:"ttl_seconds"`
}

type contextCacheEntry struct {
	userID string
	data   *models.UnifiedUserContext
	expiry time.Time
}

// ContextCache is a TTL cache with least-recently-used eviction, keyed by
// user id. It is owned by the aggregator and constructed with an explicit
// TTL and capacity; there is no package-level instance.
type ContextCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	now func() time.Time
}

// NewContextCache creates a context cache. Non-positive ttl or capacity fall
// back to the defaults.
func NewContextCache(ttl time.Duration, capacity int) *ContextCache {
	if ttl <= 0 {
		ttl = DefaultContextTTL
	}
	if capacity <= 0 {
		capacity = DefaultContextCacheSize
	}
	return &ContextCache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get returns the cached context for a user. An entry is usable iff
// now < expiry; expired entries are dropped on access.
func (c *ContextCache) Get(userID string) (*models.UnifiedUserContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[userID]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*contextCacheEntry)
	if !c.now().Before(entry.expiry) {
		c.order.Remove(elem)
		delete(c.entries, userID)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return entry.data, true
}

// Set stores a freshly assembled context with expiry now+TTL, evicting the
// least recently used entry when the cache is full.
func (c *ContextCache) Set(userID string, data *models.UnifiedUserContext) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[userID]; ok {
		entry := elem.Value.(*contextCacheEntry)
		entry.data = data
		entry.expiry = c.now().Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*contextCacheEntry).userID)
		}
	}

	elem := c.order.PushFront(&contextCacheEntry{
		userID: userID,
		data:   data,
		expiry: c.now().Add(c.ttl),
	})
	c.entries[userID] = elem
}

// Delete removes one user's entry.
func (c *ContextCache) Delete(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[userID]; ok {
		c.order.Remove(elem)
		delete(c.entries, userID)
	}
}

// Clear removes every entry.
func (c *ContextCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// PruneExpired drops expired entries and returns how many were removed.
// Called periodically by the scheduler so stale snapshots do not pin memory
// between reads.
func (c *ContextCache) PruneExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for userID, elem := range c.entries {
		if !now.Before(elem.Value.(*contextCacheEntry).expiry) {
			c.order.Remove(elem)
			delete(c.entries, userID)
			removed++
		}
	}
	return removed
}

// Stats returns total/valid/expired entry counts.
func (c *ContextCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := CacheStats{
		TotalEntries: len(c.entries),
		Capacity:     c.capacity,
		TTLSeconds:   int(c.ttl.Seconds()),
	}
	for _, elem := range c.entries {
		if now.Before(elem.Value.(*contextCacheEntry).expiry) {
			stats.ValidEntries++
		} else {
			stats.ExpiredEntries++
		}
	}
	return stats
}

// Len returns the number of entries currently held, expired or not.
func (c *ContextCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
