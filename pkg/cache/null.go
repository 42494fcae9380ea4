package cache

import (
	"context"
	"time"
)

// NullCache disables raster caching: every Get misses and Set discards the
// entry. Check for it with [Enabled] to skip encoding rasters nobody keeps.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

// Enabled reports whether c keeps entries. A nil cache counts as disabled.
func Enabled(c Cache) bool {
	switch c.(type) {
	case nil, *NullCache:
		return false
	}
	return true
}

var _ Cache = (*NullCache)(nil)
