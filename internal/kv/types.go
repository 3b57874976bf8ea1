// Package kv re-exports the key-value storage abstraction and selects a
// backend from configuration.
package kv

import (
	"neonpm/internal/kv/core"
)

type (
	// Driver identifies a key-value backend driver.
	Driver = core.Driver
	// Store is the interface for key-value storage backends.
	Store = core.Store
	// CorruptError carries a value that failed an integrity check.
	CorruptError = core.CorruptError
)

const (
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverSQLite is the embedded SQLite driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the Postgres driver.
	DriverPostgres = core.DriverPostgres
)

var (
	// ErrNotFound is returned by Load for keys never saved.
	ErrNotFound = core.ErrNotFound
	// ErrInvalidKey is returned for keys a backend cannot address.
	ErrInvalidKey = core.ErrInvalidKey
	// ErrCorrupt marks a value that failed an integrity check.
	ErrCorrupt = core.ErrCorrupt
)
