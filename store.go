package lawharvest

import "context"

// ObjectStore is a flat key/value blob store. Keys use forward slashes as
// path separators regardless of backend. Both destinations of a crawl run,
// the local filesystem and S3, satisfy this contract.
type ObjectStore interface {
	// Put writes data under key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object's content.
	// Returns ENOTFOUND if no object exists under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an object exists under key.
	Exists(ctx context.Context, key string) (bool, error)
}
