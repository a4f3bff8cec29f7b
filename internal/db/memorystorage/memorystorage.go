// Package memorystorage provides the in-memory storage backend. It reuses
// the jsondb cache structure without any file behind it.
package memorystorage

import (
	"context"

	"github.com/patric-chuzhbe/linkwatch/internal/db/jsondb"
)

// MemoryStorage keeps all users and links in process memory. It is the
// fallback backend when neither a DSN nor a database file is configured.
type MemoryStorage struct {
	*jsondb.JSONDB
}

// New returns an empty in-memory storage.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: jsondb.NewInMemory(),
	}, nil
}

// Close is a no-op; there is nothing to flush.
func (theStorage *MemoryStorage) Close() error {
	return nil
}

// Ping always succeeds.
func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
