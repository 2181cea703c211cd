package storage

import "errors"

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KV is durable client-local key-value storage.
type KV interface {
	// Get returns the value stored under key, or ErrKeyNotFound
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value
	Set(key string, value []byte) error

	// Close releases the underlying storage
	Close() error
}
