// Package cache provides pluggable byte caches for layouts and rendered
// artifacts.
//
// A [Cache] stores opaque byte slices under string keys with an optional
// time-to-live. A [Keyer] derives those keys from pipeline inputs so that
// identical requests hit the same entry regardless of which surface (CLI,
// terminal view or HTTP API) issued them.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON entry file per key under a directory
//   - [BoltCache]: a single bbolt database file
//   - [RedisCache]: a Redis server, shared between API replicas
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Remote backends retry transient failures with [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLBlob     = 24 * time.Hour
)

// Cache stores byte slices under string keys.
//
// Get reports a miss with hit == false and a nil error; an error means the
// backend itself failed. A ttl of zero or less stores the entry without
// expiry. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear removes every entry from c if it supports clearing.
func Clear(ctx context.Context, c Cache) error {
	if cl, ok := c.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts holds the options that change a computed layout.
type LayoutKeyOpts struct {
	HorizontalSpacing float64 `json:"hs"`
	VerticalSpacing   float64 `json:"vs"`
	Padding           float64 `json:"pad"`
	MaxHeight         int     `json:"mh"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style"`
	NodeSize float64 `json:"node_size"`
	Engine   string  `json:"engine,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a layout by the hash of the canonical tree input.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// BlobKey keys a stored artifact by its public identifier.
	BlobKey(id string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// BlobKey returns "blob:<id>".
func (DefaultKeyer) BlobKey(id string) string {
	return "blob:" + id
}
