package cache

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/expki/go-covariance/config"
	"github.com/expki/go-covariance/covariance"
	"golang.org/x/sync/singleflight"
)

var matrixSingleflight singleflight.Group

// Fetch returns the covariance matrix for path, loading it through fetch on a
// miss. Concurrent fetches of the same path are collapsed to one load.
func (c *Cache) Fetch(path string, fetch func() (*covariance.Covariance, error)) (value *covariance.Covariance, err error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	// singleflight fetch
	valueAny, err, _ := matrixSingleflight.Do(key, func() (any, error) {
		// retrieve cache item
		c.matricesLock.RLock()
		cacheValue, ok := c.matrices[key]
		c.matricesLock.RUnlock()

		// return cache value if valid
		if ok && cacheValue.expiration.After(time.Now()) {
			return cacheValue.value, nil
		}

		// fetch new result
		loaded, err := fetch()
		if err != nil {
			return loaded, err
		}

		// save new result
		c.matricesLock.Lock()
		c.matrices[key] = &item[*covariance.Covariance]{
			expiration: time.Now().Add(config.CACHE_DURATION),
			value:      loaded,
		}
		c.matricesLock.Unlock()

		// return new result
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	value, ok := valueAny.(*covariance.Covariance)
	if !ok {
		return nil, errors.New("failed to cast singleflight response value to type")
	}
	return value, nil
}
