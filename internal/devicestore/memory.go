package devicestore

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

func NewMemoryStore() Store {
	return &memoryStore{items: make(map[string]map[string]string)}
}

func (m *memoryStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	p, err := partition(ctx)
	if err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[p][key]
	return value, ok, nil
}

func (m *memoryStore) SetItem(ctx context.Context, key, value string) error {
	p, err := partition(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.items[p] == nil {
		m.items[p] = make(map[string]string)
	}
	m.items[p][key] = value

	return nil
}

func (m *memoryStore) RemoveItem(ctx context.Context, key string) error {
	p, err := partition(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items[p], key)

	return nil
}
