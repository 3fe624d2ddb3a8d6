// Package cache stores pipeline artifacts and served scenes.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//
// # Keys
//
// Keys are produced by a [Keyer] so that all components agree on their
// format. [DefaultKeyer] hashes key options with SHA-256; [ScopedKeyer]
// prefixes every key for namespace isolation.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{Format: "html"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLArtifact is how long rendered artifacts stay cached. Artifacts are
	// keyed by content hash, so they never go stale.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLScene is how long scenes registered with the server are kept.
	TTLScene = 24 * time.Hour

	// TTLDataset is how long datasets fetched over HTTP are reused.
	TTLDataset = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. hit is false if the key is absent or
	// expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a rendered artifact of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string

	// SceneKey returns the key of a scene artifact registered with the
	// server under id.
	SceneKey(id, format string) string

	// DatasetKey returns the key of a dataset fetched from url.
	DatasetKey(url string) string
}

// ArtifactKeyOpts holds the render settings that affect an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Embedded   bool   `json:"embedded,omitempty"`
	Background string `json:"background,omitempty"`
}

// DefaultKeyer generates keys of the form "kind:hash" or "kind:id:format".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey hashes sceneHash together with opts.
func (k *DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// SceneKey returns "scene:<id>:<format>".
func (k *DefaultKeyer) SceneKey(id, format string) string {
	return "scene:" + id + ":" + format
}

// DatasetKey hashes url.
func (k *DefaultKeyer) DatasetKey(url string) string {
	return hashKey("dataset", url)
}

var _ Keyer = (*DefaultKeyer)(nil)
