package market

import (
	"sync"
	"time"
)

// Cache provides a TTL-based in-memory cache for market data.
type Cache struct {
	mu      sync.RWMutex
	markets map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	data      Market
	fetchedAt time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		markets: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *Cache) Get(id string) (Market, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.markets[id]
	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		return Market{}, false
	}
	return entry.data, true
}

func (c *Cache) Set(m Market) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.markets[m.ID] = cacheEntry{
		data:      m,
		fetchedAt: time.Now(),
	}
}

func (c *Cache) SetAll(markets []Market) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, m := range markets {
		c.markets[m.ID] = cacheEntry{
			data:      m,
			fetchedAt: now,
		}
	}
}

// All returns all non-expired entries.
func (c *Cache) All() []Market {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	result := make([]Market, 0, len(c.markets))
	for _, entry := range c.markets {
		if now.Sub(entry.fetchedAt) <= c.ttl {
			result = append(result, entry.data)
		}
	}
	return result
}
