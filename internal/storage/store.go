// Package storage provides the key-value backends the dataset blob is kept in.
// Each backend only has to get and overwrite a single value per key; the
// boards repository decides what goes in it.
package storage

import "context"

// Store is a minimal key-value backend.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written; that is not an error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the value stored under key in one write.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the backend's resources.
	Close() error
}
