package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/vardoc/vardoc/pkg/vardoc"
	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

// MemoryStore is an in-memory document store for testing and embedding.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]any // identifier -> tree
	order  []string       // identifiers in first-save order
	closed bool
	watch  notifier
}

// NewMemoryStore creates a new in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]any)}
}

// Load implements Backend.
func (m *MemoryStore) Load(_ context.Context, base string, vctx variant.Context) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	id, ok := pickIdentifier(base, m.order, vctx)
	if !ok {
		return nil, ErrNotFound
	}
	return vardoc.CloneTree(m.docs[id]), nil
}

// Save implements Backend.
func (m *MemoryStore) Save(_ context.Context, base string, tree any, vctx variant.Context) error {
	id := Identifier(base, vctx)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrStoreClosed
	}
	if _, exists := m.docs[id]; !exists {
		m.order = append(m.order, id)
	}
	m.docs[id] = vardoc.CloneTree(vardoc.FromGo(tree))
	m.mu.Unlock()

	m.watch.notify(base, id)
	return nil
}

// List implements Lister.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	var out []string
	for _, id := range m.order {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Subscribe implements Watcher.
func (m *MemoryStore) Subscribe(base string, fn func(identifier string)) (func(), error) {
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return nil, ErrStoreClosed
	}
	return m.watch.subscribe(base, fn), nil
}

// Close implements Backend.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.docs = nil
	m.order = nil
	return nil
}

// Len returns the number of stored documents. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
