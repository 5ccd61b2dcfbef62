package cache

import (
	"context"
	"log/slog"
	"time"
)

// expiryLoop periodically sweeps expired entries so that keys which are never
// looked up again do not hold memory until the next Put.
//
// It runs the same sweep as a lookup, with the cache clock, so a ticker tick
// never disagrees with Get about what has expired.
func (c *Cache[K, V]) expiryLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			removed := c.sweepLocked(c.clock.Now())
			c.mu.Unlock()

			if removed > 0 {
				c.logger.Debug("swept expired entries", slog.Int("removed", removed))
			}
		}
	}
}
