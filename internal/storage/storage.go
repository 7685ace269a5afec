// Package storage provides the durable key-value store the repository
// persists its blobs into.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("blob not found")

// Store is a named-blob key-value store. The repository reads and rewrites
// whole blobs; there is no partial update.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
