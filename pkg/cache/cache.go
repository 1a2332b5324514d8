// Package cache provides the byte caches behind the render pipeline.
//
// All backends implement [Cache]: a flat key/value store with per-entry TTLs.
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [MemoryCache]: in-process cache backed by patrickmn/go-cache, the server default
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer], which hashes a dataset hash together with every
// option that influences the cached value. Two renders with equal keys are
// byte-identical, so entries never need invalidation beyond their TTL.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of the computed layout of a dataset.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ArtifactKey is the key of one rendered output format of a dataset.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the options that change a layout.
type LayoutKeyOpts struct {
	PadAngle float64 `json:"pad_angle"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Palette   []string `json:"palette,omitempty"`
	ColorBy   string   `json:"color_by"`
	PadAngle  float64  `json:"pad_angle"`
	Scale     float64  `json:"scale,omitempty"`
	SurfaceID string   `json:"surface_id,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

// ArtifactKey implements [Keyer]. The format is kept readable in the key.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, datasetHash, opts)
}
