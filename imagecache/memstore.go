package imagecache

import "sync"

// MemStore is an in-memory Store for tests and ephemeral deployments.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: map[string]Entry{}}
}

// Get looks an entry up by id.
func (s *MemStore) Get(id string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok, nil
}

// Save inserts or overwrites the entry under its ID.
func (s *MemStore) Save(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	return nil
}

// ListKeys returns all stored ids.
func (s *MemStore) ListKeys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for id := range s.entries {
		keys = append(keys, id)
	}
	return keys, nil
}
