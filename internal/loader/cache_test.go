package loader

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCache_GetOrCreateRunsProducerOnce(t *testing.T) {
	t.Parallel()

	c := NewCache[int]()
	defer c.Close()

	var calls atomic.Int32
	release := make(chan struct{})
	produce := func() int {
		calls.Add(1)
		<-release
		return 42
	}

	const callers = 50
	var (
		wg      sync.WaitGroup
		created atomic.Int32
		futures = make([]*Future[int], callers)
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, ok := c.GetOrCreate("k", produce)
			if ok {
				created.Add(1)
			}
			futures[i] = f
		}()
	}
	wg.Wait()
	close(release)

	if got := created.Load(); got != 1 {
		t.Errorf("created = %d, want 1", got)
	}
	for i, f := range futures {
		if f != futures[0] {
			t.Fatalf("caller %d got a different future", i)
		}
	}
	if v, ok := futures[0].Wait(context.Background()); !ok || v != 42 {
		t.Errorf("Wait() = %d, %v; want 42, true", v, ok)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("producer ran %d times, want 1", got)
	}
}

func TestCache_SettledValueNeverChanges(t *testing.T) {
	t.Parallel()

	c := NewCache[string]()
	defer c.Close()

	f, _ := c.GetOrCreate("k", func() string { return "first" })
	if v, _ := f.Wait(context.Background()); v != "first" {
		t.Fatalf("Wait() = %q, want first", v)
	}

	g, created := c.GetOrCreate("k", func() string { return "second" })
	if created {
		t.Error("second GetOrCreate created an entry")
	}
	if v, ok := g.Value(); !ok || v != "first" {
		t.Errorf("Value() = %q, %v; want first, true", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_Close(t *testing.T) {
	t.Parallel()

	c := NewCache[string]()
	f, _ := c.GetOrCreate("k", func() string { return "v" })
	c.Close()

	if _, ok := f.Value(); !ok {
		t.Error("Close returned before the producer settled")
	}

	g, created := c.GetOrCreate("new", func() string { return "never" })
	if created {
		t.Error("GetOrCreate after Close created an entry")
	}
	if v, ok := g.Value(); !ok || v != "" {
		t.Errorf("Value() = %q, %v; want zero value, true", v, ok)
	}
	if _, ok := c.Get("new"); ok {
		t.Error("key registered after Close")
	}
	if v, _ := c.GetOrCreate("k", nil); v != f {
		t.Error("existing key lost after Close")
	}
}

func TestFuture_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	f := newFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := f.Wait(ctx); ok {
		t.Error("Wait() on pending future with cancelled context = ok")
	}
	f.settle(1)
	if v, ok := f.Wait(ctx); !ok || v != 1 {
		t.Errorf("Wait() = %d, %v; want 1, true", v, ok)
	}
	select {
	case <-f.Done():
	default:
		t.Error("Done() not closed after settle")
	}
}
