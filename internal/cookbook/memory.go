package cookbook

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Entry
	order   []uuid.UUID
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[uuid.UUID]Entry)}
}

// Save stores e.
func (m *MemoryStore) Save(_ context.Context, e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.entries[e.ID] = e
	return e, nil
}

// Get returns the entry with id or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return e, nil
}

// List returns every entry in the order first saved.
func (m *MemoryStore) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id])
	}
	return out, nil
}

// Delete removes the entry with id or returns ErrNotFound.
func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(m.entries, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
