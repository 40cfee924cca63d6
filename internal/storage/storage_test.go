package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, b.Dir())

	_, err = b.Get("tasks")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set("tasks", []byte(`[1]`)))
	require.NoError(t, b.Set("tasks", []byte(`[1,2]`)))

	got, err := b.Get("tasks")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	info, err := os.Stat(b.Path("tasks"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(fileMode), info.Mode().Perm())
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, b.Set("tasks", []byte(`[]`)))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)

	hidden, err := filepath.Glob(filepath.Join(dir, ".tasks-*"))
	require.NoError(t, err)
	assert.Empty(t, hidden)
}

func TestFileBackendRejectsBadKeys(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", ".", "..", "../escape", `a\b`} {
		assert.ErrorIs(t, b.Set(key, []byte("x")), ErrInvalidKey, "key %q", key)
		_, err := b.Get(key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestMemoryBackend(t *testing.T) {
	m := NewMemoryBackend()
	_, err := m.Get("tasks")
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte("abc")
	require.NoError(t, m.Set("tasks", value))
	value[0] = 'X'

	got, err := m.Get("tasks")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got), "Set copies its input")

	got[1] = 'Y'
	again, _ := m.Get("tasks")
	assert.Equal(t, "abc", string(again), "Get returns a copy")
	assert.Equal(t, 1, m.Len())
}

func TestMemoryBackendInjectedErrors(t *testing.T) {
	m := NewMemoryBackend()
	boom := errors.New("boom")

	m.SetErr = boom
	assert.ErrorIs(t, m.Set("tasks", nil), boom)
	assert.Equal(t, 0, m.Len())

	m.GetErr = boom
	_, err := m.Get("tasks")
	assert.ErrorIs(t, err, boom)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	b, err := Open(KindFile, dir)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = Open("", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = Open(KindMemory, dir)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	_, err = Open("redis", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file, memory")
}
