// Package memory provides the bounded in-process cache tier: a
// fixed-capacity LRU with optional lazy TTL expiry, used for hot
// short-lived lookups such as resolved symbol results.
package memory

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.KeyedCache[int] = (*Cache[int])(nil)

type item[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a fixed-capacity LRU cache with optional TTL. The
// underlying LRU locks per operation, so unrelated lookups never
// serialize behind one another for long.
type Cache[V any] struct {
	lru *lru.Cache[string, item[V]]
	ttl time.Duration
	now func() time.Time
}

// New creates a cache holding at most size entries. A ttl of zero
// disables expiry. size must be positive.
func New[V any](size int, ttl time.Duration) (*Cache[V], error) {
	l, err := lru.New[string, item[V]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: l, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached value and refreshes its recency. An entry
// older than the TTL is evicted and reported absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	it, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.expired(it) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set stores a value. Inserting past capacity evicts exactly the
// least-recently-used entry.
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, item[V]{value: value, storedAt: c.now()})
}

// Has reports presence under the same TTL rule as Get, without
// refreshing recency.
func (c *Cache[V]) Has(key string) bool {
	it, ok := c.lru.Peek(key)
	if !ok {
		return false
	}
	if c.expired(it) {
		c.lru.Remove(key)
		return false
	}
	return true
}

// Cleanup eagerly sweeps all expired entries and returns the count
// removed. Not required for correctness; Get and Has expire lazily.
func (c *Cache[V]) Cleanup() int {
	if c.ttl <= 0 {
		return 0
	}
	removed := 0
	for _, key := range c.lru.Keys() {
		if it, ok := c.lru.Peek(key); ok && c.expired(it) {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries, expired ones included until
// a Get, Has or Cleanup touches them.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

func (c *Cache[V]) expired(it item[V]) bool {
	return c.ttl > 0 && c.now().Sub(it.storedAt) > c.ttl
}
