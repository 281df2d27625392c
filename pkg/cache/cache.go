// Package cache provides byte-oriented key/value storage for canvas
// snapshots and rendered previews.
//
// # Backends
//
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [RedisCache]: shared storage for several hosts drawing the same canvas
//   - [NullCache]: stores nothing; used when persistence is disabled
//
// Keys are produced by a [Keyer] so that every backend lays data out the same
// way. Wrap a backend with [Instrument] to report hits and misses through the
// observability cache hooks.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/nodecanvas/pkg/observability"
)

// Cache stores opaque values under string keys.
type Cache interface {
	// Get returns the value stored under key. The bool is false on a miss;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// Key types reported to the cache hooks.
const (
	KeyTypeSnapshot = "snapshot"
	KeyTypePreview  = "preview"
)

// Keyer builds cache keys.
type Keyer interface {
	// SnapshotKey is the key of the persisted state of a canvas.
	SnapshotKey(canvas string) string

	// PreviewKey is the key of a rendered preview. sceneHash identifies the
	// laid-out frame.
	PreviewKey(sceneHash string, opts PreviewKeyOpts) string
}

// PreviewKeyOpts are the render options that change a preview's bytes.
type PreviewKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey implements Keyer.
func (DefaultKeyer) SnapshotKey(canvas string) string {
	return "snapshot:" + canvas
}

// PreviewKey implements Keyer.
func (DefaultKeyer) PreviewKey(sceneHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", sceneHash, opts)
}

// ScopedKeyer prefixes every key, so several workspaces can share one
// backend without seeing each other's canvases.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "workspace:demo:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SnapshotKey implements Keyer.
func (k *ScopedKeyer) SnapshotKey(canvas string) string {
	return k.prefix + k.inner.SnapshotKey(canvas)
}

// PreviewKey implements Keyer.
func (k *ScopedKeyer) PreviewKey(sceneHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(sceneHash, opts)
}

// =============================================================================
// Instrumentation
// =============================================================================

// Instrumented reports every Get and Set of a wrapped cache to
// observability.Cache().
type Instrumented struct {
	Cache
	keyType string
}

// Instrument wraps c so its traffic is reported under keyType.
func Instrument(c Cache, keyType string) *Instrumented {
	return &Instrumented{Cache: c, keyType: keyType}
}

// Get implements Cache.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, c.keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, c.keyType)
	}
	return data, ok, nil
}

// Set implements Cache.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}
