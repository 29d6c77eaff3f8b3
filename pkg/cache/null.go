package cache

import (
	"context"
	"time"
)

// NullCache backs the "none" cache backend and --no-cache: every lookup
// misses, so the runner recomputes keylines and placements each time.
type NullCache struct{}

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Clear(context.Context) error                              { return nil }
func (*NullCache) Close() error                                             { return nil }
