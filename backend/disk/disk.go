// Package disk provides a file-per-key backend storing gzip-compressed
// []byte values. Keys are used as file names, so they must be bare names:
// path separators and control characters are rejected with
// backend.ErrInvalidKey.
//
// Different keys map to different files, so concurrent operations on
// different keys are safe without extra locking; same-key conflicts are the
// coordinator's responsibility.
package disk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/IvanBrykalov/syncache/backend"
)

const suffix = ".gz"

// reserved are characters that are unsafe or non-portable in file names.
const reserved = `/\:*?"<>|`

// Cache writes one <key>.gz file per key under Dir. An empty Dir disables
// the cache entirely: nothing is stored and every read misses.
type Cache struct {
	dir string
}

// New returns a disk backend rooted at dir. The directory (and any missing
// parents) is created lazily on the first Put. An empty dir disables storage.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// ValidateKey rejects keys that cannot serve as a file name.
func (c *Cache) ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", backend.ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, reserved) {
		return fmt.Errorf("%w: %q contains a reserved character", backend.ErrInvalidKey, key)
	}
	for _, r := range key {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q contains a control character", backend.ErrInvalidKey, key)
		}
	}
	return nil
}

// Contains reports whether a file exists for key.
func (c *Cache) Contains(key string) (bool, error) {
	if err := c.ValidateKey(key); err != nil {
		return false, err
	}
	if c.dir == "" {
		return false, nil
	}
	_, err := os.Stat(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get reads and decompresses the value for key. A missing file is
// backend.ErrNotFound; a corrupted file surfaces the decompression error
// and leaves the file in place (Remove clears it).
func (c *Cache) Get(key string) ([]byte, error) {
	if err := c.ValidateKey(key); err != nil {
		return nil, err
	}
	if c.dir == "" {
		return nil, backend.ErrNotFound
	}

	f, err := os.Open(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, backend.ErrNotFound
		}
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("disk: read %q: %w", key, err)
	}
	defer zr.Close()

	val, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("disk: read %q: %w", key, err)
	}
	return val, nil
}

// Put compresses val into a temporary file and renames it into place, so a
// failed write never leaves a partial entry behind. Returns val unchanged.
func (c *Cache) Put(key string, val []byte) ([]byte, error) {
	if err := c.ValidateKey(key); err != nil {
		return nil, err
	}
	if c.dir == "" {
		return val, nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk: create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, key+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("disk: write %q: %w", key, err)
	}

	if err := writeGzip(tmp, val); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("disk: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("disk: write %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("disk: write %q: %w", key, err)
	}
	return val, nil
}

// Remove deletes the file for key. Absent files are a no-op.
func (c *Cache) Remove(key string) error {
	if err := c.ValidateKey(key); err != nil {
		return err
	}
	if c.dir == "" {
		return nil
	}
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GetOrCompute returns the stored value for key, computing and storing it on
// a miss. With storage disabled (empty dir) the computed value is returned
// without being persisted.
func (c *Cache) GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, error) {
	ok, err := c.Contains(key)
	if err != nil {
		return nil, err
	}
	if ok {
		return c.Get(key)
	}

	val, err := compute()
	if err != nil {
		return nil, err
	}
	return c.Put(key, val)
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+suffix)
}

func writeGzip(w io.Writer, val []byte) error {
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(val); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

var (
	_ backend.Backend[string, []byte]  = (*Cache)(nil)
	_ backend.Computer[string, []byte] = (*Cache)(nil)
	_ backend.KeyValidator[string]     = (*Cache)(nil)
)
