package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is advanced by hand so expiry tests do not sleep.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache(ttl time.Duration) (*TTLCache[int, string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[int, string](ttl)
	c.now = clock.now
	return c, clock
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set(1001001, "In the beginning")

	value, ok := c.Get(1001001)
	if !ok {
		t.Fatal("Get returned ok=false for existing key")
	}
	if value != "In the beginning" {
		t.Errorf("Get returned %q", value)
	}

	if _, ok := c.Get(1001002); ok {
		t.Error("Get returned ok=true for missing key")
	}
}

func TestEntriesExpireIndividually(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set(1, "a")
	clock.advance(40 * time.Second)
	c.Set(2, "b")
	clock.advance(20 * time.Second)

	if _, ok := c.Get(1); ok {
		t.Error("first entry should have expired")
	}
	if _, ok := c.Get(2); !ok {
		t.Error("second entry should still be live")
	}

	c.Set(1, "a again")
	if v, ok := c.Get(1); !ok || v != "a again" {
		t.Errorf("re-set entry = %q, %v", v, ok)
	}
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	c, _ := newTestCache(0)

	c.Set(1, "a")
	if _, ok := c.Get(1); ok {
		t.Error("zero ttl cache should not store entries")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestGetOrLoad(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	calls := 0
	load := func() (string, error) {
		calls++
		return fmt.Sprintf("load %d", calls), nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad(7, load)
		if err != nil {
			t.Fatal(err)
		}
		if v != "load 1" {
			t.Errorf("GetOrLoad = %q, want cached first load", v)
		}
	}

	clock.advance(time.Minute)
	if v, _ := c.GetOrLoad(7, load); v != "load 2" {
		t.Errorf("GetOrLoad after expiry = %q", v)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad(8, func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad error = %v", err)
	}
	if _, ok := c.Get(8); ok {
		t.Error("failed load must not be cached")
	}
}

func TestPurgeAndDelete(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set(1, "a")
	c.Set(2, "b")
	clock.advance(30 * time.Second)
	c.Set(3, "c")
	clock.advance(30 * time.Second)

	if n := c.Purge(); n != 2 {
		t.Errorf("Purge removed %d, want 2", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	c.Delete(3)
	if c.Len() != 0 {
		t.Errorf("Len after Delete = %d", c.Len())
	}
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	for i := 0; i < 10; i++ {
		c.Set(i, "v")
	}

	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("Len after Invalidate = %d", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("Get after Invalidate returned ok=true")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int, string](time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Set(g*1000+i, "v")
				c.Get(i)
				if i%25 == 0 {
					c.Purge()
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() != 800 {
		t.Errorf("Len = %d, want 800", c.Len())
	}
}
