// Package cache provides an in-memory key-value store with per-entry TTL
// expiration. It backs every fetch the content pipeline performs.
package cache

import (
	"sync"
	"time"
)

// Entry is a single cached value with its expiration time.
type Entry struct {
	Value     any
	ExpiresAt time.Time
}

// Cache is a TTL key-value store. Expiration is lazy: an expired entry is
// only removed when looked up or during an explicit CleanupExpired sweep, so
// Size may transiently overcount. All operations serialize on one mutex;
// they are in-memory and O(1) apart from Clear and CleanupExpired.
type Cache struct {
	mu         sync.Mutex
	store      map[string]Entry
	defaultTTL time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a cache whose Set uses defaultTTL when no explicit TTL is
// given. A zero defaultTTL makes entries expire immediately, which is used
// to effectively disable caching in debug mode.
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		store:      map[string]Entry{},
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the cached value for key, or (nil, false) when the key is
// absent or expired. Expired entries are evicted on lookup.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.ExpiresAt) {
		delete(c.store, key)
		return nil, false
	}
	return entry.Value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL. A zero or negative TTL
// produces an entry that is already expired.
func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = Entry{
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
}

// Delete removes key and reports whether it existed.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.store[key]; ok {
		delete(c.store, key)
		return true
	}
	return false
}

// Clear removes every entry and returns the number removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.store)
	c.store = map[string]Entry{}
	return count
}

// CleanupExpired sweeps out expired entries and returns the number removed.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
			removed++
		}
	}
	return removed
}

// Size returns the current number of entries, including any expired entries
// that have not been swept yet.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}
