package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"winwin/internal/cache"
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

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newCache[V any](ttl time.Duration) (*cache.Cache[V], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.New[V](ttl)
	c.SetClock(clock.Now)
	return c, clock
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newCache[string](time.Minute)

	c.Set("key1", "value1")

	got, found := c.Get("key1")
	if !found {
		t.Error("expected key1 to be found")
	}
	if got != "value1" {
		t.Errorf("expected value1, got %v", got)
	}
}

func TestCache_GetMissing(t *testing.T) {
	c, _ := newCache[[]int](time.Minute)

	got, found := c.Get("nonexistent")
	if found {
		t.Error("expected nonexistent key to not be found")
	}
	if got != nil {
		t.Errorf("expected zero value, got %v", got)
	}
}

func TestCache_Expiration(t *testing.T) {
	c, clock := newCache[string](time.Minute)

	c.Set("key1", "value1")
	clock.Advance(61 * time.Second)

	if _, found := c.Get("key1"); found {
		t.Error("expected key1 to be expired")
	}
}

func TestCache_ZeroTTLDisables(t *testing.T) {
	c := cache.New[string](0)
	c.Set("key1", "value1")

	if _, found := c.Get("key1"); found {
		t.Error("expected zero ttl cache to store nothing")
	}
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newCache[string](time.Minute)

	c.Set("key1", "value1")
	c.Invalidate("key1")

	if _, found := c.Get("key1"); found {
		t.Error("expected key1 to be invalidated")
	}
}

func TestCache_InvalidatePrefix(t *testing.T) {
	c, _ := newCache[int](time.Minute)

	c.Set("content:en", 1)
	c.Set("content:fr", 2)
	c.Set("languages", 3)
	c.InvalidatePrefix("content:")

	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
	if _, found := c.Get("languages"); !found {
		t.Error("expected languages to survive prefix invalidation")
	}
}

func TestCache_Clear(t *testing.T) {
	c, _ := newCache[string](time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Clear()

	_, found1 := c.Get("key1")
	_, found2 := c.Get("key2")
	if found1 || found2 {
		t.Error("expected all keys to be cleared")
	}
}

func TestCache_Cleanup(t *testing.T) {
	c, clock := newCache[string](time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	clock.Advance(2 * time.Minute)
	c.Set("key3", "value3")

	c.Cleanup()

	if c.Len() != 1 {
		t.Errorf("expected only the fresh key to remain, got %d entries", c.Len())
	}
	if _, found := c.Get("key3"); !found {
		t.Error("expected fresh key to remain after cleanup")
	}
}

func TestCache_StartJanitor(t *testing.T) {
	c := cache.New[string](5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.Set("key1", "value1")
	c.StartJanitor(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for c.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Len() != 0 {
		t.Error("expected janitor to remove the expired entry")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := cache.New[int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set("key", n)
			c.Get("key")
			c.Cleanup()
		}(i)
	}
	wg.Wait()
	if _, found := c.Get("key"); !found {
		t.Error("expected key to be present")
	}
}
