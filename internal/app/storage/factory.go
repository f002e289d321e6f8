// Package storage creates the persistence backend selected by configuration
// and owns the lifecycle of the resources behind it.
package storage

import (
	"context"
	"fmt"

	"github.com/stacklok/donation-coordinator/internal/config"
	"github.com/stacklok/donation-coordinator/internal/store"
)

// Factory creates the store for one storage backend
type Factory interface {
	// CreateStore returns the store backed by this factory's storage
	CreateStore(ctx context.Context) (store.Store, error)

	// Cleanup releases any resources held by this factory, such as a
	// connection pool. It should be called when the application shuts down.
	Cleanup()
}

// NewStorageFactory creates a storage factory based on the configured storage type
func NewStorageFactory(ctx context.Context, cfg *config.Config, opts ...DatabaseFactoryOption) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		return NewDatabaseFactory(ctx, cfg, opts...)
	case config.StorageTypeMemory:
		return NewMemoryFactory(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.GetStorageType())
	}
}
