// Package cache provides caching for computed layouts and rendered artifacts.
//
// Both pipeline stages are pure functions of their inputs, so their results
// can be cached indefinitely: layouts are keyed by (counts, config) and
// artifacts by (diagram hash, format, render options). Three backends are
// provided: a file cache for the CLI, a Redis cache for multi-instance API
// deployments, and a null cache for tests or when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the inputs that distinguish one layout computation from
// another. Any field change must produce a different key.
type LayoutKeyOpts struct {
	AOnly        int    `json:"a_only"`
	BOnly        int    `json:"b_only"`
	Intersection int    `json:"intersection"`
	ConfigHash   string `json:"config_hash"`
}

// ArtifactKeyOpts distinguish rendered artifact variants.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale"`
	ShowLabels bool    `json:"show_labels"`
	FillAlpha  float64 `json:"fill_alpha"`
}

// LayoutKey generates the cache key for a layout computation.
func LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}

// ArtifactKey generates the cache key for a rendered artifact of the diagram
// with the given content hash.
func ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}
