package storage

import (
	"context"
	"sync"
)

// Memory is an in-process store for tests and single-run sessions. Writes are
// visible only after Save, matching the durable backends.
type Memory struct {
	mu      sync.RWMutex
	saved   map[string]string
	pending map[string]string
	saves   int
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		saved:   make(map[string]string),
		pending: make(map[string]string),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.saved[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[key] = value
	return nil
}

func (m *Memory) Save(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.pending {
		m.saved[k] = v
	}
	m.pending = make(map[string]string)
	m.saves++
	return nil
}

// Saves reports how many flushes happened; tests assert persistence ordering
// with it.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Seed installs a saved value directly, bypassing the pending buffer.
func (m *Memory) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[key] = value
}
