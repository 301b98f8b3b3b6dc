package cache

import (
	"sync"
	"time"
)

// Cache is an in-memory TTL cache. Expiry is checked lazily on access;
// entries are replaced wholesale on refresh and never merged. State
// lives for the process only.
type Cache[V any] struct {
	mu    sync.Mutex
	items map[string]entry[V]
	now   func() time.Time
	stats Stats
}

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// New creates an empty cache using the wall clock.
func New[V any]() *Cache[V] {
	return NewWithClock[V](time.Now)
}

// NewWithClock creates an empty cache with an injected clock.
func NewWithClock[V any](now func() time.Time) *Cache[V] {
	return &Cache[V]{
		items: make(map[string]entry[V]),
		now:   now,
	}
}

// GetOrFetch returns the cached value for key when the entry is younger
// than ttl, without invoking fetchFn. Otherwise fetchFn runs, its result
// is stored with the current timestamp and returned. A fetch failure
// propagates to the caller and leaves any prior entry untouched.
//
// Same-key fetches are not deduplicated; the fetch runs outside the
// lock so a slow upstream does not block unrelated keys.
func (c *Cache[V]) GetOrFetch(key string, ttl time.Duration, fetchFn func() (V, error)) (V, error) {
	c.mu.Lock()
	if e, ok := c.items[key]; ok && c.now().Sub(e.fetchedAt) < ttl {
		c.stats.Hits++
		c.mu.Unlock()
		return e.value, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	value, err := fetchFn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.items[key] = entry[V]{value: value, fetchedAt: c.now()}
	c.mu.Unlock()

	return value, nil
}

// Peek returns the stored value regardless of age.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Flush removes all entries.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[V])
}

// Stats returns a snapshot of hit/miss counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
