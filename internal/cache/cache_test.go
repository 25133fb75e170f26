// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestTTL_GetSet(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewTTL[string, int](time.Minute).WithClock(clock.Now)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}

	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("expected expiry")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Evictions != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if rate := stats.HitRate(); rate < 33 || rate > 34 {
		t.Errorf("HitRate = %f", rate)
	}
}

func TestTTL_SetWithTTLAndCleanup(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewTTL[string, string](time.Hour).WithClock(clock.Now)

	c.SetWithTTL("short", "x", time.Second)
	c.Set("long", "y")
	clock.Advance(time.Minute)

	if removed := c.Cleanup(); removed != 1 {
		t.Errorf("Cleanup removed %d, want 1", removed)
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long-lived entry missing")
	}
	if !c.Stats().LastCleanup.Equal(clock.Now()) {
		t.Error("LastCleanup not recorded")
	}
}

func TestTTL_DeleteAndClear(t *testing.T) {
	t.Parallel()

	c := NewTTL[int, bool](0)
	c.Set(1, true)
	c.Set(2, true)

	if !c.Delete(1) {
		t.Error("Delete(1) should report presence")
	}
	if c.Delete(1) {
		t.Error("second Delete(1) should report absence")
	}
	c.Clear()
	if c.Len() != 0 || c.Stats().TotalKeys != 0 {
		t.Errorf("Clear left %d entries", c.Len())
	}
}

func TestTTL_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewTTL[string, int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%20)
				c.Set(key, n)
				c.Get(key)
				if j%50 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()
	if c.Len() > 20 {
		t.Errorf("Len = %d, want <= 20", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](3, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Get("a")
	c.Add("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b should be evicted as least recently used")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should be present", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestLRU_UpdateRefreshes(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewLRU[string, int](2, time.Minute).WithClock(clock.Now)
	c.Add("a", 1)
	clock.Advance(50 * time.Second)
	c.Add("a", 2)
	clock.Advance(50 * time.Second)

	v, ok := c.Get("a")
	if !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v; want 2, true", v, ok)
	}
}

func TestLRU_IsDuplicate(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewLRU[string, time.Time](10, time.Minute).WithClock(clock.Now)

	if c.IsDuplicate("evt-1", clock.Now()) {
		t.Error("first sighting is not a duplicate")
	}
	if !c.IsDuplicate("evt-1", clock.Now()) {
		t.Error("second sighting is a duplicate")
	}

	clock.Advance(2 * time.Minute)
	if c.IsDuplicate("evt-1", clock.Now()) {
		t.Error("expired key should be treated as new")
	}

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 2 || size != 1 {
		t.Errorf("stats = %d/%d/%d", hits, misses, size)
	}
}

func TestLRU_RemoveAndCleanup(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewLRU[int, struct{}](0, time.Minute).WithClock(clock.Now)
	for i := 0; i < 5; i++ {
		c.Add(i, struct{}{})
	}
	if !c.Remove(0) || c.Remove(0) {
		t.Error("Remove should report presence once")
	}

	clock.Advance(30 * time.Second)
	c.Add(10, struct{}{})
	clock.Advance(45 * time.Second)

	if removed := c.CleanupExpired(); removed != 4 {
		t.Errorf("CleanupExpired = %d, want 4", removed)
	}
	if _, ok := c.Get(10); !ok {
		t.Error("fresh entry removed")
	}
}
