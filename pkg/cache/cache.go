package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
//
// Implementations:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//
// Get reports a miss with ok == false and a nil error. A zero ttl means the
// entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Backend names a cache implementation in configuration.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
)

// DefaultTTL is used for layout entries when the configuration sets none.
const DefaultTTL = 7 * 24 * time.Hour
