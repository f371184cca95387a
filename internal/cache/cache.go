package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a flat, shared key-value namespace with per-key TTLs. There
// are no transactions; concurrent writers to the same key race and the
// last write wins. Prefix discipline (see keys.go and internal/posts)
// is the only isolation between raw items, revalidation tokens and
// generated posts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Config selects and parameterizes a Store backend.
type Config struct {
	Backend   string
	RedisAddr string
	Path      string
}

var factoryFuncs = map[string]func(Config) (Store, error){}

// RegisterFactory makes a backend constructor available to New.
func RegisterFactory(backend string, fn func(Config) (Store, error)) {
	factoryFuncs[backend] = fn
}

// New builds the Store named by cfg.Backend.
func New(cfg Config) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "memory"
	}

	fn, exists := factoryFuncs[backend]
	if !exists {
		return nil, fmt.Errorf("unsupported cache backend: %s", backend)
	}

	return fn(cfg)
}
