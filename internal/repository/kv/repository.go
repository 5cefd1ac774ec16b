package kv

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

// ErrNotFound is returned by Get when the key holds no value. It matches
// domain.ErrNotFound.
var ErrNotFound = fmt.Errorf("kv: key %w", domain.ErrNotFound)

// Store is a small string key-value store. Calls are synchronous.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MySQLStore)(nil)
)
