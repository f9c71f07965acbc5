// Package timedcache implements a small in-memory cache with per-entry
// expiry. Entries are evicted lazily on read, never proactively, so a cache
// holds at most what has been asked of it.
package timedcache

import (
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cache maps string keys to values of type V. Every entry expires maxAge
// after it was stored. Safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	maxAge  time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// New returns an empty cache whose entries live for maxAge.
func New[V any](maxAge time.Duration) *Cache[V] {
	return NewWithClock[V](maxAge, time.Now)
}

// NewWithClock is New with an injectable clock, used by tests to control
// entry age without sleeping.
func NewWithClock[V any](maxAge time.Duration, now func() time.Time) *Cache[V] {
	return &Cache[V]{
		maxAge:  maxAge,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the fresh value stored under key. A stale entry is deleted on
// the spot and reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	if c.now().Sub(e.storedAt) > c.maxAge {
		delete(c.entries, key)
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores value under key, unconditionally replacing any previous entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len reports the number of entries currently held, stale ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key builds a deterministic cache key from an endpoint and its parameters.
// Parameter names are sorted before serialization so that the order callers
// happen to supply them in never affects cache hits.
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(params[name]))
	}

	return endpoint + "?" + strings.Join(pairs, "&")
}
