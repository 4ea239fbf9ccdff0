// Package cache provides byte-level caching for solved reports and rendered
// diagrams.
//
// The [Cache] interface is implemented by:
//   - [FileCache]: entries as JSON files under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (API server)
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that all entry points agree on the key
// layout. [ScopedKeyer] prefixes every key for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default lifetimes for cached entries.
const (
	TTLReport   = 30 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Key types reported to cache hooks.
const (
	KeyTypeReport   = "report"
	KeyTypeArtifact = "artifact"
)

// ArtifactKeyOpts are the render settings that distinguish artifacts of the
// same solved design.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Samples     int     `json:"samples"`
	StageLabels bool    `json:"stage_labels"`
	Legend      bool    `json:"legend"`
	Size        float64 `json:"size"`
	Scale       float64 `json:"scale"`
	Title       string  `json:"title,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ReportKey is the key of a solved report for the given input hash.
	ReportKey(inputHash string) string

	// ArtifactKey is the key of a rendered artifact.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey returns "report:<hash>".
func (DefaultKeyer) ReportKey(inputHash string) string {
	return "report:" + inputHash
}

// ArtifactKey hashes the render options together with the input hash.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}
