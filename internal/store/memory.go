package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is a map-backed store for tests and embedding.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Put adds or replaces a document.
func (s *MemoryStore) Put(id string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = content
}

// Delete removes a document if present.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
}

// List returns all document IDs, sorted for deterministic corpus builds.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Get returns a copy of the document bytes.
func (s *MemoryStore) Get(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}
