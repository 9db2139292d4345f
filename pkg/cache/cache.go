// Package cache provides the storage layer for computed layouts.
//
// Arranging long lyrics against a long band name can evaluate tens of
// thousands of optimizer states per cap, so the pipeline caches rendered
// layouts keyed by a hash of the normalized words, the target letters and
// every option that affects the result.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the XDG cache directory,
//     used by the CLI.
//   - [RedisCache]: a shared Redis instance, used by the HTTP server when
//     several replicas serve the same traffic.
//   - [NullCache]: stores nothing, used for --no-cache and in tests.
//
// # Keys
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes its inputs with
// SHA-256; [ScopedKeyer] adds a prefix so several deployments can share one
// Redis database.
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long a computed layout stays cached. Layouts are a pure
// function of their key, so the TTL only bounds disk and memory use.
const TTLLayout = 7 * 24 * time.Hour

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with (nil, false, nil). Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts holds every option that changes a layout result.
type LayoutKeyOpts struct {
	MinLineChars int   `json:"min"`
	MaxLineChars int   `json:"max"`
	CapSchedule  []int `json:"caps"`
	TopK         int   `json:"top_k"`
	Extensions   int   `json:"ext"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for the layout of text (identified by its
	// hash) spelling token under opts.
	LayoutKey(textHash, token string, opts LayoutKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(textHash, token string, opts LayoutKeyOpts) string {
	return hashKey("layout", textHash, token, opts)
}
