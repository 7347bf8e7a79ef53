package cache

import (
	"sync"
	"time"
)

// entry wraps a cached ID with expiry and insertion order tracking.
type entry struct {
	id        string
	expiry    time.Time
	insertIdx int64
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// IDCache caches name to UUID lookups against the backend so repeated
// onboarding runs do not resolve the same location, role or status twice.
// Keys are "kind:name". Thread-safe with sync.RWMutex.
type IDCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	hits       int64
	misses     int64
}

// New creates an IDCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *IDCache {
	return &IDCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// MakeKey builds a cache key from an object kind and name.
func MakeKey(kind, name string) string {
	return kind + ":" + name
}

// Get returns a cached ID if found and not expired.
func (c *IDCache) Get(kind, name string) (string, bool) {
	key := MakeKey(kind, name)

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return "", false
	}

	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.misses++
		c.mu.Unlock()
		return "", false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return e.id, true
}

// Set stores an ID in the cache. Evicts the oldest entry if at capacity.
func (c *IDCache) Set(kind, name, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := MakeKey(kind, name)
	e := entry{
		id:        id,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	// Evict oldest if at capacity
	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
}

// evictOldest removes the entry with the smallest insertion index.
// Caller must hold the write lock.
func (c *IDCache) evictOldest() {
	var oldestKey string
	oldestIdx := int64(-1)
	for k, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestKey = k
			oldestIdx = e.insertIdx
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

// Clear removes all entries and resets the counters.
func (c *IDCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
	c.hits = 0
	c.misses = 0
}

// Stats returns current cache counters.
func (c *IDCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries: len(c.items),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
