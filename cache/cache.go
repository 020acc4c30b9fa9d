package cache

import (
	"context"
	"sync"
	"time"

	"github.com/expki/go-covariance/config"
	"github.com/expki/go-covariance/covariance"
)

// NewCache creates a read-through cache of covariance container files keyed by
// path. Cached matrices are immutable and may be shared between callers.
func NewCache(appCtx context.Context) *Cache {
	c := &Cache{
		done:     make(chan struct{}),
		matrices: make(map[string]*item[*covariance.Covariance]),
	}
	go c.cleanupTask(appCtx)
	return c
}

func (c *Cache) Close() {
	close(c.done)
}

type Cache struct {
	done chan struct{}

	matricesLock sync.RWMutex
	matrices     map[string]*item[*covariance.Covariance]
}

type item[T any] struct {
	expiration time.Time
	value      T
}

func (c *Cache) cleanupTask(appCtx context.Context) {
	ticker := time.NewTicker(config.CACHE_CLEANUP)
	for {
		select {
		case <-appCtx.Done():
			ticker.Stop()
			return
		case <-c.done:
			ticker.Stop()
			return
		case <-ticker.C:
			now := time.Now()

			c.matricesLock.Lock()
			for key, value := range c.matrices {
				if value.expiration.Before(now) {
					delete(c.matrices, key)
				}
			}
			c.matricesLock.Unlock()
		}
	}
}
