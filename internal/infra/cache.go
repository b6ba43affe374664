package infra

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Cache size limits to prevent unbounded memory growth
const (
	DefaultMaxCacheEntries = 500             // Maximum number of cache entries
	DefaultCacheCleanup    = 5 * time.Minute // How often to run cache cleanup
)

// cacheEntry holds cached data with expiration and LRU tracking
type cacheEntry[V any] struct {
	data       V
	expiresAt  time.Time
	mu         sync.Mutex
	accessedAt time.Time
}

func (e *cacheEntry[V]) touch(now time.Time) {
	e.mu.Lock()
	e.accessedAt = now
	e.mu.Unlock()
}

func (e *cacheEntry[V]) lastAccess() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accessedAt
}

// Cache is an LRU cache with per-entry TTL, keyed by string.
type Cache[V any] struct {
	entries    sync.Map // key (string) -> *cacheEntry[V]
	count      int64
	evicted    int64
	maxEntries int64
	mu         sync.Mutex // serializes eviction passes

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCache creates a cache holding at most maxEntries values and starts its
// cleanup loop. Call Close to stop the loop.
func NewCache[V any](maxEntries int) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxCacheEntries
	}
	c := &Cache[V]{
		maxEntries: int64(maxEntries),
		stopCh:     make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	v, ok := c.entries.Load(key)
	if !ok {
		return zero, false
	}
	ce := v.(*cacheEntry[V])
	now := time.Now()
	if now.Before(ce.expiresAt) {
		ce.touch(now)
		return ce.data, true
	}
	if c.entries.CompareAndDelete(key, v) {
		atomic.AddInt64(&c.count, -1)
	}
	return zero, false
}

// Set stores data under key for ttl. A non-positive ttl is a no-op.
func (c *Cache[V]) Set(key string, data V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := time.Now()
	_, existed := c.entries.Swap(key, &cacheEntry[V]{
		data:       data,
		expiresAt:  now.Add(ttl),
		accessedAt: now,
	})
	if existed {
		return
	}

	newCount := atomic.AddInt64(&c.count, 1)
	if newCount > c.maxEntries {
		go c.evictLRU(int(newCount - c.maxEntries + c.maxEntries/10))
	}
}

// Delete removes a key from the cache
func (c *Cache[V]) Delete(key string) {
	if _, existed := c.entries.LoadAndDelete(key); existed {
		atomic.AddInt64(&c.count, -1)
	}
}

// DeletePrefix removes all entries whose key starts with prefix.
func (c *Cache[V]) DeletePrefix(prefix string) {
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			if _, existed := c.entries.LoadAndDelete(key); existed {
				atomic.AddInt64(&c.count, -1)
			}
		}
		return true
	})
}

// Size returns the current number of entries in the cache
func (c *Cache[V]) Size() int64 {
	return atomic.LoadInt64(&c.count)
}

// Evictions returns how many entries were dropped to honor the size limit.
func (c *Cache[V]) Evictions() int64 {
	return atomic.LoadInt64(&c.evicted)
}

// Close stops the background cleanup goroutine
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *Cache[V]) cleanupLoop() {
	ticker := time.NewTicker(DefaultCacheCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries and evicts LRU entries if over limit
func (c *Cache[V]) cleanup() {
	now := time.Now()

	c.entries.Range(func(key, value any) bool {
		if now.After(value.(*cacheEntry[V]).expiresAt) {
			if c.entries.CompareAndDelete(key, value) {
				atomic.AddInt64(&c.count, -1)
			}
		}
		return true
	})

	if current := atomic.LoadInt64(&c.count); current > c.maxEntries {
		c.evictLRU(int(current - c.maxEntries + c.maxEntries/10)) // 10% headroom
	}
}

// evictLRU removes the count least recently used entries
func (c *Cache[V]) evictLRU(count int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	type entryInfo struct {
		key        string
		accessedAt time.Time
	}
	var entries []entryInfo

	c.entries.Range(func(key, value any) bool {
		entries = append(entries, entryInfo{
			key:        key.(string),
			accessedAt: value.(*cacheEntry[V]).lastAccess(),
		})
		return true
	})

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].accessedAt.Before(entries[j].accessedAt)
	})

	evicted := 0
	for _, entry := range entries {
		if evicted >= count {
			break
		}
		if _, existed := c.entries.LoadAndDelete(entry.key); existed {
			evicted++
		}
	}

	if evicted > 0 {
		atomic.AddInt64(&c.count, -int64(evicted))
		atomic.AddInt64(&c.evicted, int64(evicted))
	}
}
