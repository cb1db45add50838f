// Package cache holds the two prediction cache tiers: an in-process TTL map
// and a shared Redis store.
package cache

import (
	"sync"
	"time"
)

type CacheItem struct {
	Value      interface{}
	Expiration int64
}

// LocalCache is a size-bounded TTL map. Expired entries are swept by a
// background goroutine until Stop is called.
type LocalCache struct {
	items   map[string]CacheItem
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int

	// Metrics
	hitsMu sync.RWMutex
	hits   int64
	misses int64

	stop     chan struct{}
	stopOnce sync.Once
}

func NewLocalCache(ttl time.Duration, maxSize int) *LocalCache {
	return newLocalCache(ttl, maxSize, time.Minute)
}

func newLocalCache(ttl time.Duration, maxSize int, sweep time.Duration) *LocalCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	cache := &LocalCache{
		items:   make(map[string]CacheItem),
		ttl:     ttl,
		maxSize: maxSize,
		stop:    make(chan struct{}),
	}

	go cache.cleanup(sweep)

	return cache
}

func (c *LocalCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || time.Now().UnixNano() > item.Expiration {
		c.incrementMisses()
		return nil, false
	}

	c.incrementHits()
	return item.Value, true
}

func (c *LocalCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictLocked()
	}

	c.items[key] = CacheItem{
		Value:      value,
		Expiration: time.Now().Add(c.ttl).UnixNano(),
	}
}

// evictLocked drops the entry closest to expiry.
func (c *LocalCache) evictLocked() {
	var (
		victim string
		oldest int64
		found  bool
	)
	for k, item := range c.items {
		if !found || item.Expiration < oldest {
			victim, oldest, found = k, item.Expiration, true
		}
	}
	if found {
		delete(c.items, victim)
	}
}

func (c *LocalCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *LocalCache) incrementHits() {
	c.hitsMu.Lock()
	defer c.hitsMu.Unlock()
	c.hits++
}

func (c *LocalCache) incrementMisses() {
	c.hitsMu.Lock()
	defer c.hitsMu.Unlock()
	c.misses++
}

func (c *LocalCache) HitRate() float64 {
	c.hitsMu.RLock()
	defer c.hitsMu.RUnlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(total)
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (c *LocalCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *LocalCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *LocalCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UnixNano()
	for key, item := range c.items {
		if now > item.Expiration {
			delete(c.items, key)
		}
	}
}
