package core

import (
	"context"
	"fmt"

	"neonpm/internal/infra/persistence/document"
	"neonpm/internal/infra/persistence/memory"
	"neonpm/internal/kv"
)

// StorageConfig selects the key-value backend and how the document is read.
type StorageConfig struct {
	KV kv.Config
	// Key overrides the document key.
	Key string
	// StrictLoad turns a corrupt document into an open error.
	StrictLoad bool
	// IDStrategy is "short" (default) or "uuid".
	IDStrategy string
}

// OpenPersistentStore opens the configured backend and loads the record
// document from it, falling back to the seed dataset when none is saved.
func OpenPersistentStore(ctx context.Context, cfg StorageConfig, logger Logger) (*document.Store, error) {
	if logger == nil {
		logger = noopLogger{}
	}
	ids, err := memory.IDStrategy(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}
	backend, err := kv.Open(ctx, cfg.KV)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.KV.Driver, err)
	}
	store, err := document.Open(ctx, backend, document.Options{
		Key:        cfg.Key,
		StrictLoad: cfg.StrictLoad,
		Logger:     logger,
		Memory:     []memory.Option{memory.WithIDGenerator(ids)},
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	logger.Info("storage opened", "driver", backend.Driver(), "key", store.Key())
	return store, nil
}
