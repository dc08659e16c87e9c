// Package store provides document store backends: S3, local disk, and in-memory.
package store

import "context"

// Store is a read-only document store. IDs are opaque string keys (object
// keys for S3, relative paths for disk). Documents are fetched on demand and
// never cached here, so a fresh corpus build always reflects store state.
type Store interface {
	// List returns all document IDs in the store. A missing or empty store
	// yields an empty slice, not an error.
	List(ctx context.Context) ([]string, error)
	// Get returns the raw bytes of one document.
	Get(ctx context.Context, id string) ([]byte, error)
}
