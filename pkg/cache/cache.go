// Package cache provides byte-level caching for rendered tree
// artifacts, with file, Redis, and no-op backends.
//
// Rendering a large tree through Graphviz is the slowest step of the
// CLI, so rendered outputs are cached keyed by a hash of the document
// and the render options. The [Keyer] centralizes key construction so
// every consumer derives identical keys for identical inputs.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all backends implement. Get reports a miss
// with a false second return, never an error; errors are reserved for
// backend failures.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the things the toolchain caches.
type Keyer interface {
	// LayoutKey keys the computed coordinates of a tree.
	LayoutKey(treeHash string) string

	// ArtifactKey keys a rendered output of a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string

	// DocumentKey keys a stored document by its id.
	DocumentKey(docID string) string
}

// ArtifactKeyOpts captures every render option that changes the output
// bytes, so distinct renders of the same tree never collide.
type ArtifactKeyOpts struct {
	Format    string `json:"format"` // "svg", "png", or "dot"
	UnitX     int    `json:"unit_x"`
	UnitY     int    `json:"unit_y"`
	ShowYears bool   `json:"show_years"`
	GIDef     int    `json:"gi_def"`
}

// DefaultKeyer is the standard key scheme: a short prefix per artifact
// class followed by a SHA-256 over the identifying inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// LayoutKey generates a key for cached layout coordinates.
func (k *DefaultKeyer) LayoutKey(treeHash string) string {
	return hashKey("layout", treeHash)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

// DocumentKey generates a key for a stored document.
func (k *DefaultKeyer) DocumentKey(docID string) string {
	return "doc:" + docID
}
