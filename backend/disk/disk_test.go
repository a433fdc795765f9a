package disk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/syncache/backend"
)

func TestDisk_PutGetRoundtrip(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir())

	val := []byte("test\ntest2")
	stored, err := c.Put("test.csv", val)
	require.NoError(t, err)
	assert.Equal(t, val, stored)

	ok, err := c.Contains("test.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := c.Get("test.csv")
	require.NoError(t, err)
	assert.Equal(t, val, got)
}

func TestDisk_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "folder1", "folder2")
	c := New(dir)

	_, err := c.Put("test.csv", []byte("test"))
	require.NoError(t, err)

	ok, err := c.Contains("test.csv")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDisk_GetMissing(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir())
	_, err := c.Get("absent")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestDisk_RemoveIdempotent(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir())

	_, err := c.Put("test.csv", []byte("test"))
	require.NoError(t, err)

	require.NoError(t, c.Remove("test.csv"))
	ok, err := c.Contains("test.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing again is a no-op.
	require.NoError(t, c.Remove("test.csv"))
}

func TestDisk_InvalidKey(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir())

	for _, key := range []string{"", ".", "..", "a/b", `a\b`, "abcs/:/123/!@#", "nul\x00byte"} {
		_, err := c.Contains(key)
		assert.ErrorIs(t, err, backend.ErrInvalidKey, "key %q", key)

		_, err = c.Put(key, []byte("x"))
		assert.ErrorIs(t, err, backend.ErrInvalidKey, "key %q", key)
	}
}

func TestDisk_CorruptedEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := New(dir)

	// Not a gzip stream.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "text.csv.gz"), []byte("abcd"), 0o644))

	_, err := c.Get("text.csv")
	require.Error(t, err)
	assert.NotErrorIs(t, err, backend.ErrNotFound)

	// The corrupted file stays until removed explicitly.
	ok, err := c.Contains("text.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Remove("text.csv"))
	ok, err = c.Contains("text.csv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDisk_DisabledWithoutDirectory(t *testing.T) {
	t.Parallel()

	c := New("")

	ok, err := c.Contains("a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Put succeeds but stores nothing.
	v, err := c.Put("a", []byte("123"))
	require.NoError(t, err)
	assert.Equal(t, []byte("123"), v)

	ok, err = c.Contains("a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Get("a")
	assert.ErrorIs(t, err, backend.ErrNotFound)
	require.NoError(t, c.Remove("a"))
}

func TestDisk_GetOrCompute(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir())

	calls := 0
	v, err := c.GetOrCompute("test.csv", func() ([]byte, error) {
		calls++
		return []byte("test\ntest2"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("test\ntest2"), v)

	// Cached now; compute must not run again.
	v, err = c.GetOrCompute("test.csv", func() ([]byte, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("test\ntest2"), v)
	assert.Equal(t, 1, calls)
}

func TestDisk_GetOrComputeDisabled(t *testing.T) {
	t.Parallel()

	c := New("")

	v, err := c.GetOrCompute("test.csv", func() ([]byte, error) {
		return []byte("test"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), v)

	// Nothing was persisted.
	ok, err := c.Contains("test.csv")
	require.NoError(t, err)
	assert.False(t, ok)
}
