package cache

import (
	"sync"
	"time"

	ifacecache "github.com/goliatone/go-novels/pkg/interfaces/cache"
)

// DefaultTTL is the freshness window for search results.
const DefaultTTL = 300 * time.Second

// PopularKey caches the popular-novels listing.
const PopularKey = "popular_novels"

// TTLCache stores values with an insertion timestamp. Entries are valid while
// now-storedAt <= ttl and are only removed by Sweep or overwritten by Store.
// Size is unbounded.
type TTLCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]entry
	stats   Stats
}

type entry struct {
	value    any
	storedAt time.Time
}

// Stats counts cache activity since construction.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Stores  int64 `json:"stores"`
	Expired int64 `json:"expired"`
}

var _ ifacecache.Cache = (*TTLCache)(nil)

// Option customizes a TTLCache.
type Option func(*TTLCache)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTTL builds a cache with the provided TTL. If ttl <= 0, a Nop cache is
// returned so every lookup falls through.
func NewTTL(ttl time.Duration, opts ...Option) ifacecache.Cache {
	if ttl <= 0 {
		return &ifacecache.Nop{}
	}
	return New(ttl, opts...)
}

// New builds a TTLCache, falling back to DefaultTTL when ttl <= 0.
func New(ttl time.Duration, opts ...Option) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TTLCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL reports the freshness window fixed at construction.
func (c *TTLCache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

// Lookup returns the value for key when present and not expired.
func (c *TTLCache) Lookup(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.expired(e, now) {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return e.value, true
}

// Store inserts or replaces key, stamping the current time.
func (c *TTLCache) Store(key string, value any) {
	if c == nil {
		return
	}
	now := c.now()
	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: now}
	c.stats.Stores++
	c.mu.Unlock()
}

// Sweep removes every entry whose age exceeds TTL and reports how many went.
func (c *TTLCache) Sweep() int {
	if c == nil {
		return 0
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, key)
			removed++
		}
	}
	c.stats.Expired += int64(removed)
	return removed
}

// Len reports entries currently held, expired or not.
func (c *TTLCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *TTLCache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.stats
	out.Entries = len(c.entries)
	return out
}

func (c *TTLCache) expired(e entry, now time.Time) bool {
	return now.Sub(e.storedAt) > c.ttl
}
