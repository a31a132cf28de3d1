package store

import (
	"context"
	"sync"

	"github.com/git-pkgs/wpupdates/internal/core"
)

// Memory implements Store with a map.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]core.UpdateCache
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]core.UpdateCache)}
}

func (m *Memory) Initialize(ctx context.Context) error {
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) (core.UpdateCache, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.entries[key]
	return c, ok, nil
}

func (m *Memory) Set(ctx context.Context, key string, cache core.UpdateCache) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = cache
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
