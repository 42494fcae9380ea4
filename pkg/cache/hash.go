package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// RasterKeyOpts identifies one render.
type RasterKeyOpts struct {
	SVG     string `json:"svg"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	DPI     int    `json:"dpi"`
	Backend string `json:"backend"`
}

// RasterKey generates the cache key for a render.
func RasterKey(opts RasterKeyOpts) string {
	return hashKey("raster", opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
