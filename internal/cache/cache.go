package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/sync/singleflight"

	"lrucache/internal/clock"
)

// ErrInvalidArgument is returned when a cache limit is not strictly positive.
var ErrInvalidArgument = errors.New("cache: invalid argument")

// Stats counts cache activity since construction.
type Stats struct {
	Hits   uint64
	Misses uint64
	// Evictions counts entries dropped to make room for an insert.
	Evictions uint64
	// Expirations counts entries swept because they outlived the lifespan.
	Expirations uint64
	// ResizeEvictions counts entries dropped by shrinking the limit.
	ResizeEvictions uint64
}

// Cache is a concurrency-safe, fixed-capacity LRU cache whose entries also
// expire after a fixed lifespan.
//
// Recency is kept by a map + doubly-linked list (simplelru): the oldest
// element is the least recently inserted or read, the newest the most recent.
//
// Ownership model:
// Cache owns its cleanup goroutine, if one was requested. Call Close to stop it.
type Cache[K comparable, V any] struct {
	mu sync.RWMutex

	limit    int
	lifespan time.Duration
	entries  *simplelru.LRU[K, Entry[K, V]]
	stats    Stats

	clock  clock.Clock
	logger *slog.Logger
	group  singleflight.Group

	// Goroutine ownership.
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	cleanupEvery time.Duration
	closed       bool
}

// New constructs a cache holding at most limit entries.
//
// A limit <= 0 fails with ErrInvalidArgument before anything is allocated.
func New[K comparable, V any](limit int, opts ...Option) (*Cache[K, V], error) {
	if err := validLimit(limit); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := simplelru.NewLRU[K, Entry[K, V]](limit, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	c := &Cache[K, V]{
		limit:        limit,
		lifespan:     o.lifespan,
		entries:      entries,
		clock:        o.clock,
		logger:       o.logger,
		cleanupEvery: o.cleanupEvery,
	}

	if c.cleanupEvery > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(1)
		go c.expiryLoop(ctx)
	}

	return c, nil
}

func validLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}
	return nil
}

// Close stops the cleanup goroutine. The cache remains usable afterwards.
//
// Close is safe to call multiple times.
func (c *Cache[K, V]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		// Cancel outside the lock; the loop takes it on every tick.
		cancel()
		c.wg.Wait()
		c.logger.Debug("cache cleanup stopped")
	}
	return nil
}

// Put inserts or replaces the value for key.
//
// Expired entries are swept first. Replacing a key creates a fresh entry, so
// its age restarts. If the cache is full the least recently used entry is
// evicted.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.sweepLocked(now)
	c.entries.Remove(key)

	// The key is absent here, so the insert overflows by at most one.
	if c.entries.Len() >= c.limit {
		if _, _, ok := c.entries.RemoveOldest(); ok {
			c.stats.Evictions++
		}
	}
	c.entries.Add(key, newEntry(key, value, now))
}

// Get returns the live value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.locateLocked(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// BirthtimeOf returns when the live entry for key was inserted. Like Get, it
// marks the entry most recently used.
func (c *Cache[K, V]) BirthtimeOf(key K) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.locateLocked(key)
	if !ok {
		return time.Time{}, false
	}
	return e.CreatedAt, true
}

// Len returns the number of stored entries.
//
// Note: Len does not sweep, so it includes entries that have expired but
// haven't been looked past yet.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}

// Limit returns the current capacity.
func (c *Cache[K, V]) Limit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limit
}

// Lifespan returns the fixed entry lifespan.
func (c *Cache[K, V]) Lifespan() time.Duration {
	return c.lifespan
}

// Resize changes the capacity.
//
// Shrinking by n drops the n least recently used entries (or all of them, if
// fewer are stored). Growing drops nothing. Resize does not sweep.
func (c *Cache[K, V]) Resize(limit int) error {
	if err := validLimit(limit); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for excess := c.limit - limit; excess > 0; excess-- {
		if _, _, ok := c.entries.RemoveOldest(); ok {
			removed++
		}
	}
	c.entries.Resize(limit)
	c.stats.ResizeEvictions += uint64(removed)

	c.logger.Debug("cache resized",
		slog.Int("from", c.limit),
		slog.Int("to", limit),
		slog.Int("evicted", removed))
	c.limit = limit
	return nil
}

// EldestKey returns the least recently used key without sweeping or
// promoting anything.
func (c *Cache[K, V]) EldestKey() (K, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key, _, ok := c.entries.GetOldest()
	return key, ok
}

// Keys returns keys from least to most recently used.
//
// This is a debug helper; it neither sweeps nor promotes.
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Keys()
}

// Delete removes key if present and reports whether it was.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Remove(key)
}

// Purge removes every entry. Limit and stats are kept.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Stats returns a snapshot of the activity counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// locateLocked sweeps expired entries, then looks key up and promotes it to
// most recently used. It is the only read path that mutates recency.
func (c *Cache[K, V]) locateLocked(key K) (Entry[K, V], bool) {
	c.sweepLocked(c.clock.Now())

	e, ok := c.entries.Get(key)
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return e, ok
}

// sweepLocked removes every expired entry.
//
// This is a full O(n) scan on every lookup. Caches are expected to be small;
// the ordering structure keeps the rest of each operation O(1).
func (c *Cache[K, V]) sweepLocked(now time.Time) int {
	removed := 0
	for _, key := range c.entries.Keys() {
		e, ok := c.entries.Peek(key)
		if ok && e.Expired(now, c.lifespan) {
			c.entries.Remove(key)
			removed++
		}
	}
	c.stats.Expirations += uint64(removed)
	return removed
}
