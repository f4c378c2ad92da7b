// Package store caches conversion results using a Bloom filter in front of an expiring LRU.
package store

import (
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultFalsePositiveRate is the Bloom filter error rate used by NewResultCache callers.
const DefaultFalsePositiveRate = 0.001

// ResultCache is a thread-safe cache of conversion results keyed by source URL.
// The Bloom filter answers most misses without touching the LRU; it is rebuilt
// from the live keys once enough entries have churned through it.
type ResultCache[V any] struct {
	bloom                  *bloom.BloomFilter
	lru                    *expirable.LRU[string, V]
	mutex                  sync.RWMutex
	maxEntries             int
	bloomFalsePositiveRate float64
	bloomAdds              int
}

// NewResultCache creates a cache holding up to maxEntries results for ttl each.
func NewResultCache[V any](maxEntries int, ttl time.Duration, bloomFalsePositiveRate float64) *ResultCache[V] {
	if maxEntries <= 0 {
		panic("maxEntries must be positive")
	}

	return &ResultCache[V]{
		bloom:                  newBloom(maxEntries, bloomFalsePositiveRate),
		lru:                    expirable.NewLRU[string, V](maxEntries, nil, ttl),
		maxEntries:             maxEntries,
		bloomFalsePositiveRate: bloomFalsePositiveRate,
	}
}

// Get returns the cached value for key.
func (c *ResultCache[V]) Get(key string) (V, bool) {
	c.mutex.RLock()
	maybe := c.bloom.TestString(key)
	c.mutex.RUnlock()

	if maybe {
		if value, ok := c.lru.Get(key); ok {
			return value, true
		}
	}

	var zero V
	return zero, false
}

// Add stores value under key, evicting the least recently used entry when full.
func (c *ResultCache[V]) Add(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.lru.Add(key, value)
	c.bloom.AddString(key)
	c.bloomAdds++

	// Evicted and expired keys stay in the filter; rebuild before it saturates.
	if c.bloomAdds > 2*c.maxEntries {
		c.rebuildBloom()
	}
}

// Remove drops key from the cache.
func (c *ResultCache[V]) Remove(key string) {
	c.lru.Remove(key)
}

// Len returns the number of live entries.
func (c *ResultCache[V]) Len() int {
	return c.lru.Len()
}

// Purge removes all entries.
func (c *ResultCache[V]) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.lru.Purge()
	c.bloom = newBloom(c.maxEntries, c.bloomFalsePositiveRate)
	c.bloomAdds = 0
}

func (c *ResultCache[V]) rebuildBloom() {
	keys := c.lru.Keys()
	c.bloom = newBloom(c.maxEntries, c.bloomFalsePositiveRate)
	for _, key := range keys {
		c.bloom.AddString(key)
	}
	c.bloomAdds = len(keys)
}

func newBloom(maxEntries int, falsePositiveRate float64) *bloom.BloomFilter {
	return bloom.NewWithEstimates(uint(maxEntries), falsePositiveRate)
}
