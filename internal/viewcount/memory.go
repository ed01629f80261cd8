package viewcount

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is a process-local Sink. Counts reset when the process restarts.
type Memory struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int64
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{counts: make(map[uuid.UUID]int64)}
}

// Add increments the counter and returns the new value.
func (m *Memory) Add(_ context.Context, articleID uuid.UUID, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[articleID] += delta
	return m.counts[articleID], nil
}

// Get returns the counter, zero if unset.
func (m *Memory) Get(_ context.Context, articleID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[articleID], nil
}
