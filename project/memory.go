package project

import (
	"context"
	"sync"

	"github.com/udayip/portfolio/logger"
)

// MemoryStore keeps the collection in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	projects []Project
	logger   logger.Logger
}

// NewMemoryStore creates a store holding a copy of seed.
func NewMemoryStore(seed []Project, log logger.Logger) *MemoryStore {
	return &MemoryStore{
		projects: Clone(seed),
		logger:   log,
	}
}

// Name implements Store.
func (s *MemoryStore) Name() string { return "memory" }

// Get returns a copy of the collection.
func (s *MemoryStore) Get(ctx context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.projects), nil
}

// Put swaps in a copy of projects.
func (s *MemoryStore) Put(ctx context.Context, projects []Project) error {
	next := Clone(projects)

	s.mu.Lock()
	s.projects = next
	s.mu.Unlock()

	s.logger.Info(ctx, "projects replaced", map[string]interface{}{
		"store": s.Name(),
		"count": len(next),
	})
	return nil
}
