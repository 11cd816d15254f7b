package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/metric"
)

// Default cache bounds.
const (
	DefaultCacheTTL      = 30 * time.Second
	DefaultCacheCapacity = 128
)

// FetchFunc loads a value when the cache cannot serve it.
type FetchFunc func(ctx context.Context) (any, error)

type cacheEntry struct {
	value     any
	storedAt  time.Time
	expiresAt time.Time
}

// CacheStats is a snapshot of cache effectiveness counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// ResponseCache caches fetched responses with per-entry TTL bounds.
//
// Entries past their TTL are treated as absent. When the capacity is
// reached, the least recently written entry is evicted. Failed fetches
// are never cached.
type ResponseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry

	ttl      time.Duration
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64

	metrics *metric.Registry
	now     func() time.Time
}

// NewResponseCache creates a cache with the given default TTL and
// capacity. Non-positive arguments fall back to defaults. The metrics
// registry may be nil.
func NewResponseCache(ttl time.Duration, capacity int, metrics *metric.Registry) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ResponseCache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		capacity: capacity,
		metrics:  metrics,
		now:      time.Now,
	}
}

// GetOrFetch returns the cached value for key if fresh, otherwise runs
// fetch and caches its result for ttl. A non-positive ttl uses the
// cache default. A fetch error is returned as is and nothing is stored.
func (c *ResponseCache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (any, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Before(entry.expiresAt) {
		c.hits++
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.CacheHits.Inc()
		}
		return entry.value, nil
	}
	if ok {
		// Stale entry counts as a miss and is dropped.
		delete(c.entries, key)
	}
	c.misses++
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	now := c.now()
	c.entries[key] = cacheEntry{value: value, storedAt: now, expiresAt: now.Add(ttl)}
	c.mu.Unlock()

	return value, nil
}

// Invalidate removes all entries whose key starts with prefix and
// returns the number removed. An empty prefix clears the cache.
func (c *ResponseCache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns a snapshot of the cache counters.
func (c *ResponseCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.entries),
	}
}

// evictOldestLocked drops the least recently written entry.
// Caller holds c.mu.
func (c *ResponseCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true

	for key, entry := range c.entries {
		if first || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
		c.evictions++
		if c.metrics != nil {
			c.metrics.CacheEvictions.Inc()
		}
	}
}
