// Package storage defines the persistent key-value contract a queue
// stores its index and elements in.
//
// A Store is string-keyed byte storage scoped to a single named queue.
// Every write is durable before the call returns. Stores provide no
// ordering of their own; ordering lives entirely in the queue's index.
package storage

import "errors"

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable key-value surface a queue persists into. The
// queue treats a decode failure on anything read from a Store the same
// as ErrNotFound.
//
// Implementations that hold resources may additionally implement
// io.Closer; the queue closes owned stores on Close.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set durably writes value under key, overwriting any prior value.
	Set(key string, value []byte) error
	// Remove durably deletes key. Removing an absent key is a no-op.
	Remove(key string) error
	// Contains reports whether key has a value.
	Contains(key string) (bool, error)
	// RemoveAll durably deletes every key in this store's scope.
	RemoveAll() error
}
