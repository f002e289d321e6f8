package storage

import (
	"context"
	"log/slog"

	"github.com/stacklok/donation-coordinator/internal/store"
	"github.com/stacklok/donation-coordinator/internal/store/inmemory"
)

// MemoryFactory creates a process-local store. All state is lost on exit.
type MemoryFactory struct {
	store *inmemory.Store
}

var _ Factory = (*MemoryFactory)(nil)

// NewMemoryFactory creates a new in-memory storage factory
func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{}
}

// CreateStore returns the factory's in-memory store, creating it on first use
func (m *MemoryFactory) CreateStore(_ context.Context) (store.Store, error) {
	if m.store == nil {
		slog.Info("Creating in-memory store")
		m.store = inmemory.New()
	}
	return m.store, nil
}

// Cleanup is a no-op for in-memory storage
func (*MemoryFactory) Cleanup() {}
