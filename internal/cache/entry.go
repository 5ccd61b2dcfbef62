package cache

import "time"

// Entry is a single cached value stamped with its insertion time.
//
// Entries are never mutated after construction. Overwriting a key replaces its
// Entry, which also resets its age.
type Entry[K comparable, V any] struct {
	Key       K
	Value     V
	CreatedAt time.Time
}

func newEntry[K comparable, V any](key K, value V, now time.Time) Entry[K, V] {
	return Entry[K, V]{Key: key, Value: value, CreatedAt: now}
}

// Age reports how long ago the entry was created.
func (e Entry[K, V]) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Expired reports whether the entry has reached lifespan. A non-positive
// lifespan expires every entry.
func (e Entry[K, V]) Expired(now time.Time, lifespan time.Duration) bool {
	return e.Age(now) >= lifespan
}
