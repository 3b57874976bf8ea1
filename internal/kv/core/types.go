// Package core defines the key-value storage abstraction shared by the
// persistence backends. One key holds one opaque blob; writes overwrite.
package core

import (
	"context"
	"errors"
	"fmt"
)

// Driver identifies a concrete key-value backend implementation.
type Driver string

const (
	// DriverMemory is the in-process map used by tests and ephemeral runs.
	DriverMemory Driver = "memory"
	// DriverFilesystem stores one file per key under a root directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 stores one object per key in an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverSQLite stores rows in a local SQLite database.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores rows in a Postgres table.
	DriverPostgres Driver = "postgres"
)

// Store is the persistent key-value capability the document layer depends on.
type Store interface {
	// Load returns the bytes saved under key or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save writes data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error
	// Delete removes key. It reports false, nil when the key was absent.
	Delete(ctx context.Context, key string) (bool, error)
	// Keys lists keys with the given prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Driver returns the backend identifier.
	Driver() Driver
	// Close releases backend resources.
	Close() error
}

// ErrNotFound is returned by Load when a key has never been saved.
var ErrNotFound = errors.New("kv: key not found")

// ErrInvalidKey is returned for empty keys or keys a backend cannot address.
var ErrInvalidKey = errors.New("kv: invalid key")

// ErrCorrupt marks a stored value that failed the backend's integrity check.
var ErrCorrupt = errors.New("kv: corrupt value")

// CorruptError carries the bytes of a value that failed an integrity check
// so callers can set them aside. It matches ErrCorrupt.
type CorruptError struct {
	Key  string
	Data []byte
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Key, e.Err)
}

// Unwrap exposes both the backend cause and ErrCorrupt.
func (e *CorruptError) Unwrap() []error { return []error{e.Err, ErrCorrupt} }
