package storage

import (
	"context"
	"sync"

	"storefront/pkg/platform/sentinel"
)

// Memory keeps records in a map. It backs tests and single-shot tooling where
// durability does not matter. It intentionally favors clarity over performance.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if raw, ok := m.records[key]; ok {
		return append([]byte(nil), raw...), nil
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) Write(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}
