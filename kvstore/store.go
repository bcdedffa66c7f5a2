// Package kvstore provides the small key-value contract the history ledger
// persists through, with in-memory, file-backed and Redis-backed
// implementations.
package kvstore

import "context"

// Store is a minimal durable key-value slot. The ledger reads its slot once
// at startup, overwrites it on every mutation and removes it entirely on an
// explicit clear.
type Store interface {
	// Get returns the value stored under key. The second return value is
	// false when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
