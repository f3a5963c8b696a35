package loader

import (
	"context"
	"sort"
	"sync"
)

// Future is a value that becomes available once. After it settles its
// value never changes.
type Future[V any] struct {
	done chan struct{}
	val  V
}

func newFuture[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// settledFuture returns a future that already holds v.
func settledFuture[V any](v V) *Future[V] {
	f := newFuture[V]()
	f.settle(v)
	return f
}

func (f *Future[V]) settle(v V) {
	f.val = v
	close(f.done)
}

// Done is closed when the future settles.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx ends. ok is false when ctx
// ended first; the future itself keeps running.
func (f *Future[V]) Wait(ctx context.Context) (v V, ok bool) {
	if v, ok := f.Value(); ok {
		return v, true
	}
	select {
	case <-f.done:
		return f.val, true
	case <-ctx.Done():
		return v, false
	}
}

// Value returns the settled value without blocking. ok is false while the
// future is pending.
func (f *Future[V]) Value() (v V, ok bool) {
	select {
	case <-f.done:
		return f.val, true
	default:
		return v, false
	}
}

// Cache maps keys to futures for the lifetime of a session. Entries are
// never evicted.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*Future[V]
	wg      sync.WaitGroup
	closed  bool
}

// NewCache creates an empty Cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]*Future[V])}
}

// GetOrCreate returns the future for key. When key is new, a future is
// registered and produce runs in its own goroutine to settle it; created
// reports whether this call did so. The check and the registration happen
// under one lock, so concurrent callers for a key share a single produce
// call.
//
// After Close, unknown keys get an already settled future holding the zero
// value, and nothing is registered.
func (c *Cache[V]) GetOrCreate(key string, produce func() V) (f *Future[V], created bool) {
	c.mu.Lock()
	if f, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return f, false
	}
	if c.closed {
		c.mu.Unlock()
		var zero V
		return settledFuture(zero), false
	}

	f = newFuture[V]()
	c.entries[key] = f
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		f.settle(produce())
	}()
	return f, true
}

// Get returns the future for key if one exists.
func (c *Cache[V]) Get(key string) (*Future[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.entries[key]
	return f, ok
}

// Len returns the number of keys.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the keys in sorted order.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()
	sort.Strings(keys)
	return keys
}

// Close stops registering new keys and waits for running producers.
// Producers are expected to return promptly once their own cancellation
// fires; Close does not cancel them.
func (c *Cache[V]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}
