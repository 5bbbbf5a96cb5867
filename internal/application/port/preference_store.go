package port

import "context"

// KeyValueStore is a durable string key/value store used to persist
// theme preferences.
type KeyValueStore interface {
	// Get returns the value for key.
	// Returns ("", false, nil) if the key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error
}
