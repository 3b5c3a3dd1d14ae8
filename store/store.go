package store

import "context"

// Store is the key-value capability behind both the remote data cache and
// the rating store. Values are JSON-serialized strings; expiry metadata,
// where needed, lives inside the value so expired entries stay readable.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Keys lists every stored key with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
