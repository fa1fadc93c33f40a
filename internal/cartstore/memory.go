package cartstore

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. Writes signal its broadcaster.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
	*Broadcaster
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		values:      make(map[string][]byte),
		Broadcaster: NewBroadcaster(),
	}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	m.values[key] = v
	m.mu.Unlock()

	m.Signal()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()

	m.Signal()
	return nil
}
