package imagecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the whole image map as a single JSON document on disk,
// the durable-local-storage analogue of the browser build. All access goes
// through one mutex; writers rewrite the full document (the map stays small
// enough that this is fine, and it keeps last-write-wins trivially true).
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given directory. The document
// lives at <dir>/<Namespace>.json.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image cache directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, Namespace+".json")}, nil
}

func (s *FileStore) load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image cache: %w", err)
	}

	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt document behaves like an empty store rather than
		// wedging every save and lookup after it.
		log.Warn().Err(err).Str("path", s.path).Msg("image cache is corrupt, starting over")
		return map[string]Entry{}, nil
	}
	return entries, nil
}

func (s *FileStore) flush(entries map[string]Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode image cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image cache: %w", err)
	}
	return nil
}

// Get looks an entry up by id.
func (s *FileStore) Get(id string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := entries[id]
	return e, ok, nil
}

// Save inserts or overwrites the entry under its ID.
func (s *FileStore) Save(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[e.ID] = e
	return s.flush(entries)
}

// ListKeys returns all stored ids.
func (s *FileStore) ListKeys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for id := range entries {
		keys = append(keys, id)
	}
	return keys, nil
}
