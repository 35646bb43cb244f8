// Package cache stores rendered artifacts so repeated requests for the
// same value and options skip the frame provider entirely.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for single-host use
//   - [RedisCache]: shared cache for several service instances
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes every option that can
// change the rendered bytes; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts are kept. Rendering is
// deterministic, so entries only expire to bound storage.
const TTLArtifact = 7 * 24 * time.Hour

// artifactPrefix starts every key produced by DefaultKeyer.
const artifactPrefix = "artifact"

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every stored artifact.
type Clearer interface {
	// Clear removes all artifacts and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}

// ArtifactKeyOpts holds every option that influences a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Value  string `json:"value"`
	Level  string `json:"level"`
	Margin int    `json:"margin"`

	BackgroundColor string  `json:"bg"`
	BackgroundAlpha float64 `json:"bga"`
	ForegroundColor string  `json:"fg"`
	ForegroundAlpha float64 `json:"fga"`
	Width           float64 `json:"w"`
	Height          float64 `json:"h"`
	Size            int     `json:"size"`

	Glyphs [4]string `json:"glyphs"`
}

// Keyer builds cache keys.
type Keyer interface {
	ArtifactKey(opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the artifact options into "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey(artifactPrefix, opts)
}
