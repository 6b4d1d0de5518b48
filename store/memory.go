package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MemoryStore keeps the document tree in a map. It serves engine tests and
// local development without a database.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]json.RawMessage
	hub   *notifier

	// FailWrite, when set, is consulted before every mutation; a non-nil
	// return aborts the write with that error. Tests use it to simulate
	// per-path store failures.
	FailWrite func(path string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]json.RawMessage),
		hub:   newNotifier(),
	}
}

func (s *MemoryStore) ReadOnce(ctx context.Context, path string) (json.RawMessage, error) {
	s.mu.RLock()
	exact := s.nodes[path]
	children := make(map[string]json.RawMessage)
	for p, v := range s.nodes {
		if strings.HasPrefix(p, path+"/") {
			children[strings.TrimPrefix(p, path+"/")] = v
		}
	}
	s.mu.RUnlock()

	return assemble(exact, children)
}

func (s *MemoryStore) Subscribe(path string, fn func(changedPath string)) func() {
	return s.hub.subscribe(path, fn)
}

func (s *MemoryStore) WriteWhole(ctx context.Context, path string, value any) error {
	if err := s.failure(path); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for p := range s.nodes {
		if strings.HasPrefix(p, path+"/") {
			delete(s.nodes, p)
		}
	}
	s.nodes[path] = raw
	s.mu.Unlock()

	s.hub.notify(path)
	return nil
}

func (s *MemoryStore) WritePartial(ctx context.Context, path string, fields map[string]any) error {
	if err := s.failure(path); err != nil {
		return err
	}

	s.mu.Lock()
	merged, err := mergeFields(s.nodes[path], fields)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.nodes[path] = merged
	s.mu.Unlock()

	s.hub.notify(path)
	return nil
}

func (s *MemoryStore) DeleteSubtree(ctx context.Context, path string) error {
	if err := s.failure(path); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.nodes, path)
	for p := range s.nodes {
		if strings.HasPrefix(p, path+"/") {
			delete(s.nodes, p)
		}
	}
	s.mu.Unlock()

	s.hub.notify(path)
	return nil
}

func (s *MemoryStore) AllocateID(parentPath string) (string, error) {
	return gonanoid.New()
}

// Exists reports whether any node sits at or under path.
func (s *MemoryStore) Exists(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.nodes[path]; ok {
		return true
	}
	for p := range s.nodes {
		if strings.HasPrefix(p, path+"/") {
			return true
		}
	}
	return false
}

func (s *MemoryStore) failure(path string) error {
	if s.FailWrite == nil {
		return nil
	}
	return s.FailWrite(path)
}
