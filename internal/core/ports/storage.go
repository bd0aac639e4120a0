package ports

import "context"

// KeyValueStore is the persistence contract the credential store depends on.
// Implementations own the storage medium; nothing else writes to it.
type KeyValueStore interface {
	// Get returns the value for key. The second return is false when the
	// key is absent; absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
