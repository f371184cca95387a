package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

func init() {
	RegisterFactory("memory", func(cfg Config) (Store, error) {
		return NewMemoryStore(), nil
	})
}

// MemoryStore is a process-local Store. Entries do not survive a
// restart; the next invocation simply observes misses and refetches.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(30*time.Minute, 10*time.Minute),
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := m.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
