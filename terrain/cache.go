// terrain/cache.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package terrain

import (
	gomath "math"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cached memoizes height lookups from a slower Provider. Queries are
// snapped to a lattice of Resolution degrees, so nearby queries share an
// entry; misses (no data) are cached as well.
type Cached struct {
	Provider   Provider
	Resolution float64

	cache        *expirable.LRU[cellKey, cachedHeight]
	hits, misses atomic.Int64
}

type cellKey struct {
	X, Y int64
}

type cachedHeight struct {
	h  float64
	ok bool
}

// DefaultCacheResolution is about 1cm at the equator.
const DefaultCacheResolution = 1e-7

func NewCached(p Provider, size int, ttl time.Duration) *Cached {
	return &Cached{
		Provider:   p,
		Resolution: DefaultCacheResolution,
		cache:      expirable.NewLRU[cellKey, cachedHeight](size, nil, ttl),
	}
}

func (c *Cached) HeightAt(lon, lat float64) (float64, bool) {
	key := cellKey{
		X: int64(gomath.Round(lon / c.Resolution)),
		Y: int64(gomath.Round(lat / c.Resolution)),
	}
	if v, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return v.h, v.ok
	}

	c.misses.Add(1)
	h, ok := c.Provider.HeightAt(lon, lat)
	c.cache.Add(key, cachedHeight{h: h, ok: ok})
	return h, ok
}

// Stats returns the number of cache hits and misses so far.
func (c *Cached) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cached) Len() int {
	return c.cache.Len()
}

// Purge discards all cached heights, e.g. after the underlying terrain
// changes.
func (c *Cached) Purge() {
	c.cache.Purge()
}
