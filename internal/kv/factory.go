package kv

import (
	"context"
	"fmt"

	"neonpm/internal/infra/kv/fs"
	"neonpm/internal/infra/kv/memory"
	"neonpm/internal/infra/kv/postgres"
	"neonpm/internal/infra/kv/s3"
	"neonpm/internal/infra/kv/sqlite"
)

// S3Config configures the S3 driver.
type S3Config = s3.Config

// Config selects and configures a backend.
type Config struct {
	Driver Driver
	// Path is the directory for fs or the database file for sqlite.
	Path string
	// DSN is the Postgres connection string.
	DSN string
	S3  S3Config
}

// Open constructs the Store named by cfg.Driver. An empty driver selects fs.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverMemory:
		return memory.New(), nil
	case DriverFilesystem:
		return fs.New(cfg.Path)
	case DriverSQLite:
		return sqlite.New(cfg.Path)
	case DriverPostgres:
		return postgres.New(ctx, cfg.DSN)
	case DriverS3:
		return s3.New(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown kv driver %s", driver)
	}
}

// NewMemory returns an in-memory Store.
func NewMemory() Store { return memory.New() }

// NewS3Mock returns an S3 Store backed by an in-process fake transport.
func NewS3Mock(prefix string) Store { return s3.NewMockForTests(prefix) }
