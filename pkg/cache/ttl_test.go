package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	ifacecache "github.com/goliatone/go-novels/pkg/interfaces/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Set(offset time.Duration) {
	f.mu.Lock()
	f.now = time.Unix(0, 0).Add(offset)
	f.mu.Unlock()
}

func newTestCache() (*TTLCache, *fakeClock) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	return New(DefaultTTL, WithClock(clock.Now)), clock
}

func TestStoreThenLookupReturnsValue(t *testing.T) {
	c, _ := newTestCache()
	payload := map[string]any{"status": "success", "data": []string{"a"}}

	c.Store("k", payload)
	got, ok := c.Lookup("k")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got.(map[string]any)["status"] != "success" {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestSearchKeyScenario(t *testing.T) {
	c, clock := newTestCache()
	key := "novels:dragon:None:1:10"
	payload := map[string]any{"status": "success", "data": []any{}}

	c.Store(key, payload)

	clock.Set(299 * time.Second)
	if _, ok := c.Lookup(key); !ok {
		t.Fatalf("expected hit at t=299")
	}

	clock.Set(301 * time.Second)
	if _, ok := c.Lookup(key); ok {
		t.Fatalf("expected miss at t=301")
	}
	if c.Len() != 1 {
		t.Fatalf("expected expired entry to remain until sweep, got %d", c.Len())
	}
	if removed := c.Sweep(); removed != 1 {
		t.Fatalf("expected one entry swept, got %d", removed)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after sweep, got %d", c.Len())
	}
}

func TestLookupAtExactTTLIsHit(t *testing.T) {
	c, clock := newTestCache()
	c.Store("k", 1)
	clock.Set(DefaultTTL)
	if _, ok := c.Lookup("k"); !ok {
		t.Fatalf("expected hit at age == TTL")
	}
	clock.Set(DefaultTTL + time.Nanosecond)
	if _, ok := c.Lookup("k"); ok {
		t.Fatalf("expected miss just past TTL")
	}
}

func TestOverwriteResetsAge(t *testing.T) {
	c, clock := newTestCache()
	c.Store("k", "first")

	clock.Set(DefaultTTL / 2)
	c.Store("k", "second")

	clock.Set(DefaultTTL + DefaultTTL/4)
	got, ok := c.Lookup("k")
	if !ok {
		t.Fatalf("expected hit inside refreshed window")
	}
	if got != "second" {
		t.Fatalf("expected overwritten value, got %v", got)
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	c, clock := newTestCache()
	c.Store("old", 1)

	clock.Set(200 * time.Second)
	c.Store("fresh", 2)

	clock.Set(350 * time.Second)
	if removed := c.Sweep(); removed != 1 {
		t.Fatalf("expected one removal, got %d", removed)
	}
	if _, ok := c.Lookup("old"); ok {
		t.Fatalf("expected old entry gone")
	}
	if got, ok := c.Lookup("fresh"); !ok || got != 2 {
		t.Fatalf("expected fresh entry to survive, got %v %v", got, ok)
	}
}

func TestStatsTracksActivity(t *testing.T) {
	c, clock := newTestCache()
	c.Store("a", 1)
	c.Lookup("a")
	c.Lookup("missing")
	clock.Set(time.Hour)
	c.Sweep()

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Stores != 1 || stats.Expired != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Entries != 0 {
		t.Fatalf("expected no entries, got %d", stats.Entries)
	}
}

func TestTTLFixedAtConstruction(t *testing.T) {
	if got := New(2 * time.Minute).TTL(); got != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", got)
	}
	if got := New(0).TTL(); got != DefaultTTL {
		t.Fatalf("expected default ttl, got %s", got)
	}
}

func TestNewTTLDisabledReturnsNop(t *testing.T) {
	c := NewTTL(0)
	if _, ok := c.(*ifacecache.Nop); !ok {
		t.Fatalf("expected nop cache, got %T", c)
	}
	c.Store("k", 1)
	if _, ok := c.Lookup("k"); ok {
		t.Fatalf("nop cache should never hit")
	}
}

func TestConcurrentStoreAndLookup(t *testing.T) {
	c, _ := newTestCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			c.Store(key, i)
			c.Lookup(key)
			c.Sweep()
		}(i)
	}
	wg.Wait()
	if c.Len() != 4 {
		t.Fatalf("expected 4 keys, got %d", c.Len())
	}
}
