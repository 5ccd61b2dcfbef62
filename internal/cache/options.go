package cache

import (
	"io"
	"log/slog"
	"time"

	"lrucache/internal/clock"
)

// DefaultLifespan is used when WithLifespan is not supplied.
const DefaultLifespan = 10 * time.Second

// Option configures a Cache at construction.
type Option func(*options)

type options struct {
	lifespan     time.Duration
	clock        clock.Clock
	logger       *slog.Logger
	cleanupEvery time.Duration
}

func defaultOptions() options {
	return options{
		lifespan: DefaultLifespan,
		clock:    clock.System(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLifespan sets how long an entry stays live after insertion.
//
// The value is not validated: zero or a negative duration makes every entry
// expire on the next lookup.
func WithLifespan(d time.Duration) Option {
	return func(o *options) { o.lifespan = d }
}

// WithClock replaces the time source used to stamp and age entries.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger for maintenance events. Nil keeps the default,
// which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCleanupInterval starts a background goroutine that sweeps expired
// entries every d. d <= 0 disables it; lookups still expire lazily.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cleanupEvery = d }
}
