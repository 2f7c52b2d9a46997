package user

import (
	"context"
	"sync"
	"time"
)

// Invalidator coalesces invalidation requests per key: the first request for a key starts
// a fixed delay, further requests during that delay are absorbed, and the key is dropped
// from the cache once when the delay ends.
type Invalidator struct {
	cache ProfileCache
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

func NewInvalidator(cache ProfileCache, delay time.Duration) *Invalidator {
	return &Invalidator{cache: cache, delay: delay, pending: map[string]*time.Timer{}}
}

// Schedule queues key for invalidation.
func (inv *Invalidator) Schedule(key string) {
	if inv == nil || inv.cache == nil {
		return
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.stopped {
		return
	}
	if _, queued := inv.pending[key]; queued {
		return
	}
	if inv.delay <= 0 {
		inv.cache.Invalidate(context.Background(), key)
		return
	}
	inv.pending[key] = time.AfterFunc(inv.delay, func() { inv.fire(key) })
}

func (inv *Invalidator) fire(key string) {
	inv.mu.Lock()
	_, queued := inv.pending[key]
	delete(inv.pending, key)
	inv.mu.Unlock()
	if queued {
		inv.cache.Invalidate(context.Background(), key)
	}
}

// Pending reports how many keys are waiting for their delay to end.
func (inv *Invalidator) Pending() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.pending)
}

// Flush invalidates every queued key now.
func (inv *Invalidator) Flush() {
	inv.mu.Lock()
	keys := make([]string, 0, len(inv.pending))
	for key, t := range inv.pending {
		t.Stop()
		keys = append(keys, key)
	}
	inv.pending = map[string]*time.Timer{}
	inv.mu.Unlock()

	for _, key := range keys {
		inv.cache.Invalidate(context.Background(), key)
	}
}

// Stop flushes queued keys and ignores later requests.
func (inv *Invalidator) Stop() {
	inv.mu.Lock()
	inv.stopped = true
	inv.mu.Unlock()
	inv.Flush()
}
