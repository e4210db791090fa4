// Package kv provides the synchronous key/value string store backing the
// local storage backend. Each logical collection is one JSON document under
// one fixed key.
package kv

import "context"

// Store is a synchronous key/value string store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
