// Package store persists the shopping list as a full snapshot under a
// single key of a key-value blob store.
package store

import (
	"context"
	"errors"
)

// DefaultKey is the blob key the list snapshot lives under.
const DefaultKey = "shoppingList"

// ErrNotFound is returned by Blobs.Get when the key holds no value.
var ErrNotFound = errors.New("not found")

// Blobs is a flat key-value store of opaque values.
// Implementations: jsonstore (files), sqlite, postgres.
type Blobs interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the value of key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
