// Package cache stores encoded rasters between runs.
//
// A render is a pure function of its request (SVG text, pixel size, DPI) and
// the backend that ran it, so its lossless output can be reused. The cache
// only ever holds PNG bytes; callers decode a hit into a fresh raster.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.RasterKey(cache.RasterKeyOpts{SVG: svg, Width: 1200, Height: 1800, DPI: 300, Backend: "library"})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    // decode data
//	}
package cache

import (
	"context"
	"time"
)

// TTLRaster is how long a rendered raster stays cached.
const TTLRaster = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
