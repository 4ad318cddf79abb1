package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/use-agent/goldrate/models"
)

// entry holds a cached quote response with its creation timestamp.
type entry struct {
	response  *models.QuoteResponse
	createdAt time.Time
}

// Cache is a small in-memory cache of quote responses, keyed by source page
// and engine chain. It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	now        func() time.Time
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries older
// than 1 hour.
func New(maxEntries int) *Cache {
	c := newCache(maxEntries, time.Now)
	go c.cleanupLoop()
	return c
}

func newCache(maxEntries int, now func() time.Time) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		now:        now,
	}
}

// Key generates a cache key from the source URL and the engine chain name.
func Key(sourceURL, engines string) string {
	h := sha256.New()
	h.Write([]byte(sourceURL))
	h.Write([]byte("|"))
	h.Write([]byte(engines))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a copy of the cached response if it exists and is younger
// than maxAgeMs. If maxAgeMs <= 0, no lookup is performed.
func (c *Cache) Get(key string, maxAgeMs int) (*models.QuoteResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if c.now().Sub(e.createdAt) > maxAge {
		return nil, false
	}

	resp := *e.response
	return &resp, true
}

// Set stores a successful response. Failed responses are never cached so
// a transient fault is not served back to later callers. If the cache is
// at capacity, the oldest entry is evicted.
func (c *Cache) Set(key string, resp *models.QuoteResponse) {
	if resp == nil || !resp.Success {
		return
	}
	stored := *resp
	stored.CacheStatus = ""

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		var oldestKey string
		var oldest time.Time
		for k, e := range c.store {
			if oldestKey == "" || e.createdAt.Before(oldest) {
				oldestKey, oldest = k, e.createdAt
			}
		}
		delete(c.store, oldestKey)
	}

	c.store[key] = &entry{
		response:  &stored,
		createdAt: c.now(),
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// evictBefore drops entries created before cutoff.
func (c *Cache) evictBefore(cutoff time.Time) {
	c.mu.Lock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}

// cleanupLoop evicts entries older than 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.evictBefore(c.now().Add(-1 * time.Hour))
	}
}
