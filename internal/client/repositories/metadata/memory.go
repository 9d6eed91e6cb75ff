package metadata

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps metadata in process memory. It does not survive a
// restart and is meant for tests and ephemeral sessions.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (r *MemoryRepository) SetMany(_ context.Context, values map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range values {
		r.data[k] = cloneValue(v)
	}
	return nil
}

func (r *MemoryRepository) DeleteMany(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.data, k)
	}
	return nil
}

func cloneValue(v []byte) []byte {
	if v == nil {
		return []byte{}
	}
	return slices.Clone(v)
}
