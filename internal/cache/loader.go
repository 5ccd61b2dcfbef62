package cache

import "fmt"

type loaded[K comparable, V any] struct {
	key   K
	value V
}

// GetOrLoad returns the live value for key, calling load to fill it on a miss.
//
// Concurrent misses on the same key share a single load call. A load error is
// returned to every waiting caller and nothing is cached.
//
// Flights are grouped by the key's type and %v form. A caller that joins a
// flight started for a different key with the same form runs its own load
// instead of taking that result.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(flightKey(key), func() (any, error) {
		return c.loadAndPut(key, load)
	})
	if err != nil {
		var zero V
		return zero, err
	}

	l := res.(loaded[K, V])
	if l.key != key {
		l2, err := c.loadAndPut(key, load)
		if err != nil {
			var zero V
			return zero, err
		}
		l = l2
	}
	return l.value, nil
}

func (c *Cache[K, V]) loadAndPut(key K, load func() (V, error)) (loaded[K, V], error) {
	v, err := load()
	if err != nil {
		return loaded[K, V]{}, err
	}
	c.Put(key, v)
	return loaded[K, V]{key: key, value: v}, nil
}

func flightKey(key any) string {
	return fmt.Sprintf("%T\x00%v", key, key)
}
