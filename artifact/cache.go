package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/shadergraph"
)

// Cache stores bundles on disk keyed by their content digest.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a cache rooted at dir. An empty dir selects
// $XDG_CACHE_HOME/sgc, or ~/.cache/sgc.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "sgc")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "bundles", key.String()+".mp")
}

// Put writes b and returns its key. Writing a bundle that is already
// cached is a no-op.
func (c *Cache) Put(b *Bundle) (Digest, error) {
	key, err := b.Key()
	if err != nil {
		return key, err
	}
	if c == nil {
		return key, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if _, err := os.Stat(p); err == nil {
		return key, nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return key, err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return key, err
	}
	tmp := f.Name()
	defer func() {
		// Gone after a successful rename.
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			shadergraph.Logger().Warn("artifact: failed to remove temp file", "path", tmp, "err", rmErr)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(b); err != nil {
		_ = f.Close()
		return key, fmt.Errorf("artifact: encode %s: %w", b.Name, err)
	}
	if err := f.Close(); err != nil {
		return key, err
	}
	if err := os.Rename(tmp, p); err != nil {
		return key, err
	}
	shadergraph.Logger().Debug("artifact: cached bundle", "name", b.Name, "key", key.String())
	return key, nil
}

// Get reads the bundle stored under key. It reports false when the key is
// not cached or was written with another schema.
func (c *Cache) Get(key Digest) (*Bundle, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var b Bundle
	if err := msgpack.NewDecoder(f).Decode(&b); err != nil {
		return nil, false, fmt.Errorf("artifact: decode %s: %w", key, err)
	}
	if b.Schema != schemaVersion {
		return nil, false, nil
	}
	return &b, true, nil
}

// DropAll removes every cached bundle.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Join(c.dir, "bundles")
	old := dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
