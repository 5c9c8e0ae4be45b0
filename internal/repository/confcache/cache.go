// Package confcache caches runtime configuration entries in memory with
// a TTL. Reads on the search hot path (prompt template, over-fetch
// multiplier) hit the snapshot; every admin mutation invalidates it so
// the next read observes the change immediately rather than at TTL
// expiry.
package confcache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// source loads the full entry set from the backing store.
type source interface {
	All(ctx context.Context) (map[string]string, error)
}

type snapshot struct {
	entries  map[string]string
	loadedAt time.Time
}

// Cache is a TTL snapshot cache over the configuration entry store.
// Readers take a lock-free atomic load; reloads serialize on a mutex.
type Cache struct {
	source source
	ttl    time.Duration
	lookup *prometheus.CounterVec // labeled hit|reload; nil disables

	mu   sync.Mutex // guards reloads
	snap atomic.Pointer[snapshot]
}

// New creates a cache over the given source. ttl bounds staleness for
// changes made outside this process.
func New(src source, ttl time.Duration, lookup *prometheus.CounterVec) *Cache {
	return &Cache{source: src, ttl: ttl, lookup: lookup}
}

// Get returns the value of a single entry and whether it exists.
func (c *Cache) Get(ctx context.Context, name string) (string, bool, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := entries[name]
	return v, ok, nil
}

// Entries returns the full entry map, reloading it when the snapshot is
// missing or older than the TTL. The returned map must not be mutated.
func (c *Cache) Entries(ctx context.Context) (map[string]string, error) {
	if snap := c.snap.Load(); snap != nil && time.Since(snap.loadedAt) < c.ttl {
		c.count("hit")
		return snap.entries, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another reader may have reloaded while this one waited.
	if snap := c.snap.Load(); snap != nil && time.Since(snap.loadedAt) < c.ttl {
		c.count("hit")
		return snap.entries, nil
	}

	entries, err := c.source.All(ctx)
	if err != nil {
		// Serve the stale snapshot over failing the request outright.
		if snap := c.snap.Load(); snap != nil {
			c.count("stale")
			return snap.entries, nil
		}
		return nil, fmt.Errorf("load config entries: %w", err)
	}

	c.snap.Store(&snapshot{entries: entries, loadedAt: time.Now()})
	c.count("reload")
	return entries, nil
}

// Invalidate drops the snapshot. Called synchronously from every
// configuration mutation before the mutation's response is returned.
func (c *Cache) Invalidate() {
	c.snap.Store(nil)
}

func (c *Cache) count(outcome string) {
	if c.lookup != nil {
		c.lookup.WithLabelValues(outcome).Inc()
	}
}
