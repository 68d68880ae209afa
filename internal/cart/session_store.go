package cart

import (
	"context"
	"sync"
)

// SessionStore persists one cart record per session key. Implementations
// must treat a missing key as (nil, nil), not an error.
type SessionStore interface {
	Load(ctx context.Context, sessionKey string) (*Record, error)
	Save(ctx context.Context, sessionKey string, record *Record) error
	Delete(ctx context.Context, sessionKey string) error
}

// MemoryStore keeps records in process memory. Used in tests and as the
// "memory" session backend for local development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Load(ctx context.Context, sessionKey string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[sessionKey]
	if !ok {
		return nil, nil
	}
	copied := record.clone()
	return &copied, nil
}

func (m *MemoryStore) Save(ctx context.Context, sessionKey string, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[sessionKey] = record.clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, sessionKey)
	return nil
}
