package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be present")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("a = %q, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("a", "1")
	clock.advance(30 * time.Second)
	c.Set("b", "2")
	clock.advance(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if removed := c.CleanExpired(); removed != 0 {
		t.Errorf("Get already dropped a, CleanExpired removed %d", removed)
	}
	clock.advance(time.Minute)
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d", c.Size())
	}
}

func TestLRUAdd(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	if !c.Add("k", "first") {
		t.Fatal("first Add must store")
	}
	if c.Add("k", "second") {
		t.Fatal("second Add must report a duplicate")
	}
	if v, _ := c.Get("k"); v != "first" {
		t.Errorf("value = %q", v)
	}

	clock.advance(2 * time.Minute)
	if !c.Add("k", "third") {
		t.Error("Add after expiry must store")
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("deleted key still present")
	}
}

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) CleanExpired() int {
	c.calls.Add(1)
	return 1
}

func TestRunCleanupStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cleaner := &countingCleaner{}
	var reported atomic.Int32

	done := make(chan struct{})
	go func() {
		RunCleanup(ctx, 5*time.Millisecond, func(n int) { reported.Add(int32(n)) }, cleaner)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for cleaner.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if cleaner.calls.Load() < 2 || reported.Load() < 2 {
		t.Errorf("calls=%d reported=%d", cleaner.calls.Load(), reported.Load())
	}
}
