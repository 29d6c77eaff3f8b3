package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked writer polls the cache lock.
const lockRetryDelay = 10 * time.Millisecond

// FileCache implements a file-based cache for CLI usage.
// Cache entries are stored as files in a directory with metadata (expiration).
// Writers from concurrent CLI processes are serialized with a lock file in
// the cache directory; readers never block.
type FileCache struct {
	dir  string
	lock *flock.Flock
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// cacheEntry wraps cached data with metadata.
type cacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value from the cache.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Invalid cache entry - treat as miss
		_ = os.Remove(path)
		return nil, false, nil
	}

	// Check expiration
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Set stores a value in the cache. The entry is written to a temporary file
// and renamed into place, so readers see either the old or the new entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{
		Data: data,
	}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.withLock(ctx, func() error {
		path := c.path(key)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
		if err != nil {
			return err
		}
		if _, err := tmp.Write(entryData); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return err
		}
		return os.Rename(tmp.Name(), path)
	})
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	return c.withLock(ctx, func() error {
		err := os.Remove(c.path(key))
		if os.IsNotExist(err) {
			return nil
		}
		return err
	})
}

// Clear removes every entry. The directory itself is kept.
func (c *FileCache) Clear(ctx context.Context) error {
	return c.withLock(ctx, func() error {
		entries, err := os.ReadDir(c.dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the lock file handle.
func (c *FileCache) Close() error {
	return c.lock.Close()
}

// withLock runs fn while holding the cache lock, waiting until ctx is done.
func (c *FileCache) withLock(ctx context.Context, fn func() error) error {
	ok, err := c.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrLocked, ctx.Err())
		}
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer c.lock.Unlock()
	return fn()
}

// path converts a cache key to a file path.
// Uses a simple hash-based directory structure to avoid too many files in one dir.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	// Use first 2 chars as subdirectory for distribution
	subdir := hash[:2]
	filename := hash[2:] + ".json"
	return filepath.Join(c.dir, subdir, filename)
}

// Ensure FileCache implements Cache and Clearer.
var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
