// Package cache implements a single-process, in-memory key–value cache.
//
// A Cache holds at most Limit entries and evicts the least recently used one
// when an insert would exceed that bound. Independently, every entry has a
// fixed lifespan measured from its insertion; once an entry is that old it is
// treated as absent.
//
// Expiry is lazy: expired entries are swept out on the next lookup (Get,
// BirthtimeOf, Put), not on a timer. A background sweep can be enabled with
// WithCleanupInterval for caches whose keys are written once and rarely read.
//
// Absence is reported with the comma-ok idiom, never as an error. The only
// error a Cache returns is ErrInvalidArgument, for a non-positive limit.
package cache
