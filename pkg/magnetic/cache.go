// pkg/magnetic/cache.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package magnetic

import (
	gomath "math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmp/chartplot/pkg/math"
)

// CacheResolution is the size, in degrees, of the cells that cached
// declination values are shared across.
const CacheResolution = 0.1

type cacheKey struct {
	lat, lon int
	day      int64
}

// Cached wraps a Model so that repeated lookups near the same position on
// the same day (as happens while the view is panned) do not re-evaluate
// the model.
type Cached struct {
	Model Model
	cache *lru.Cache[cacheKey, float64]
}

func NewCached(m Model, size int) (*Cached, error) {
	c, err := lru.New[cacheKey, float64](size)
	if err != nil {
		return nil, err
	}
	return &Cached{Model: m, cache: c}, nil
}

func (c *Cached) Declination(p math.Point2LL, t time.Time) (float64, error) {
	p = p.Normalized()
	key := cacheKey{
		lat: int(gomath.Round(p.Latitude() / CacheResolution)),
		lon: int(gomath.Round(p.Longitude() / CacheResolution)),
		day: t.Unix() / 86400,
	}
	if d, ok := c.cache.Get(key); ok {
		return d, nil
	}

	// Evaluate at the cell center so that the cached value doesn't depend
	// on which point in the cell happened to be looked up first.
	center := math.LL(float64(key.lat)*CacheResolution, float64(key.lon)*CacheResolution)
	d, err := c.Model.Declination(center, t)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, d)
	return d, nil
}

// Len returns the number of cached cells.
func (c *Cached) Len() int {
	return c.cache.Len()
}
