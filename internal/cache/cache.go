// Package cache holds small in-process caches with expiry.
package cache

import (
	"context"
	"time"
)

// Cache is a keyed store whose entries may disappear at any time.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries eagerly.
type Cleaner interface {
	CleanExpired() int
}

// RunCleanup calls CleanExpired on every cache at each interval until ctx is
// done. onClean, when set, receives the number of entries removed per tick.
func RunCleanup(ctx context.Context, interval time.Duration, onClean func(removed int), caches ...Cleaner) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, c := range caches {
				removed += c.CleanExpired()
			}
			if onClean != nil && removed > 0 {
				onClean(removed)
			}
		}
	}
}
