package allowlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Source yields allow-list membership decisions. Implementations must
// reflect the current state of the externally-owned list on every call:
// authorization never tolerates a stale snapshot, even at the cost of
// repeated I/O.
type Source interface {
	Contains(ctx context.Context, id string) (bool, error)
}

type fileDocument struct {
	AllowedUsers []string `json:"allowedUsers"`
}

// File reads a JSON document of the form {"allowedUsers": [...]} from disk
// on every check. The file is owned and mutated externally.
type File struct {
	path string
}

// NewFile creates a file-backed allow-list source
func NewFile(path string) *File {
	return &File{path: path}
}

// Contains reports whether id is in the current allow-list file.
func (f *File) Contains(_ context.Context, id string) (bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return false, fmt.Errorf("reading allow-list %s: %w", f.path, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("parsing allow-list %s: %w", f.path, err)
	}

	for _, allowed := range doc.AllowedUsers {
		if allowed == id {
			return true, nil
		}
	}
	return false, nil
}

// Static is a fixed in-memory allow-list for tests and local development.
type Static struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewStatic creates a static allow-list containing the given ids
func NewStatic(ids ...string) *Static {
	s := &Static{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the list.
func (s *Static) Contains(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok, nil
}

// Add inserts an id into the list.
func (s *Static) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// Remove deletes an id from the list.
func (s *Static) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}
