package store

import (
	"context"
	"sync"

	"github.com/josephgoksu/contactbook/models"
)

// MemoryBackend is the session-only backend used when no location is bound.
// It keeps the last saved state for the lifetime of the process.
type MemoryBackend struct {
	mu    sync.Mutex
	state models.ContactList
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{state: models.NewContactList()}
}

func (m *MemoryBackend) Load(_ context.Context) (models.ContactList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

func (m *MemoryBackend) Save(_ context.Context, state models.ContactList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
	return nil
}

func (m *MemoryBackend) Location() string { return "" }

func (m *MemoryBackend) Close() error { return nil }
