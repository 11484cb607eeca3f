package di

import (
	"context"
	"sync"
	"time"
)

// QueryCache is the in-process cache backing the query bus caching
// middleware. Only read results land here (analytics in particular);
// entries expire by TTL and are also dropped lazily on read.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value    interface{}
	deadline time.Time
}

// NewQueryCache creates the cache and starts its janitor
func NewQueryCache() *QueryCache {
	c := &QueryCache{entries: make(map[string]cacheEntry)}
	go c.janitor(5 * time.Minute)
	return c
}

// Get returns the cached value when present and not yet expired.
// Expired entries are removed on the spot.
func (c *QueryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.deadline) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.deadline.Equal(entry.deadline) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores a value with a TTL in seconds
func (c *QueryCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.mu.Lock()
	c.entries[key] = cacheEntry{
		value:    value,
		deadline: time.Now().Add(time.Duration(ttl) * time.Second),
	}
	c.mu.Unlock()
	return nil
}

// Delete drops one entry
func (c *QueryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear drops everything
func (c *QueryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	return nil
}

func (c *QueryCache) janitor(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, entry := range c.entries {
			if now.After(entry.deadline) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
