package repositories

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by KeyValueRepository.Get when nothing is stored under the key
var ErrKeyNotFound = errors.New("key not found")

// KeyValueRepository is the persistence port for follow snapshots: whole values
// stored and overwritten under a single key.
type KeyValueRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryKeyValueRepository implements KeyValueRepository in process memory
type MemoryKeyValueRepository struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryKeyValueRepository creates an empty MemoryKeyValueRepository
func NewMemoryKeyValueRepository() *MemoryKeyValueRepository {
	return &MemoryKeyValueRepository{items: make(map[string][]byte)}
}

func (r *MemoryKeyValueRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *MemoryKeyValueRepository) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	r.mu.Lock()
	r.items[key] = v
	r.mu.Unlock()
	return nil
}
