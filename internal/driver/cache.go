package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"tomlfmt/internal/config"
	"tomlfmt/internal/version"
)

// cacheSchemaVersion is bumped whenever cacheEntry changes shape.
const cacheSchemaVersion uint16 = 1

// Digest is a BLAKE3-256 content key.
type Digest [32]byte

// Cache remembers documents already known to be canonical, keyed by their
// bytes, the formatting options and the formatter version. A hit lets the
// driver skip parsing entirely. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// cacheEntry is what gets stored per key. Only canonical documents are
// recorded, so an entry's presence is the answer; the rest is for humans
// poking at the cache directory with a msgpack viewer.
type cacheEntry struct {
	Schema  uint16
	Version string
	Path    string
	Size    int
}

// OpenCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCacheDir(filepath.Join(base, app))
}

// OpenCacheDir opens a cache rooted at dir, creating it if needed.
func OpenCacheDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Key derives the cache key for content formatted with cfg.
func Key(content []byte, cfg config.Configuration) Digest {
	h := blake3.New()
	fp := Fingerprint(cfg)
	_, _ = h.Write([]byte(version.Version))
	_, _ = h.Write([]byte{byte(cacheSchemaVersion >> 8), byte(cacheSchemaVersion)})
	_, _ = h.Write(fp[:])
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint hashes the msgpack encoding of cfg; any option change
// invalidates every key.
func Fingerprint(cfg config.Configuration) Digest {
	data, err := msgpack.Marshal(&cfg)
	if err != nil {
		// все поля сериализуемы; на всякий случай опираемся на текст
		data = []byte(fmt.Sprintf("%#v", cfg))
	}
	return blake3.Sum256(data)
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "fmt", hexKey[:2], hexKey+".mp")
}

// Formatted reports whether key was recorded as canonical.
func (c *Cache) Formatted(key Digest) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		// битая запись считается промахом и будет перезаписана
		return false, nil
	}
	return entry.Schema == cacheSchemaVersion && entry.Version == version.Version, nil
}

// MarkFormatted records key as canonical. The write goes through a temp
// file and a rename so concurrent readers never see a partial entry.
func (c *Cache) MarkFormatted(key Digest, path string, size int) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(&cacheEntry{
		Schema:  cacheSchemaVersion,
		Version: version.Version,
		Path:    path,
		Size:    size,
	})
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "fmt"))
}
