package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/tasklanes/internal/filelock"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
	fileExt  = ".json"
)

// FileBackend stores each key as <dir>/<key>.json. Writes are atomic
// (temp file + rename) and serialized across processes with an advisory lock.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the storage directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the storage directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Path returns the file holding key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+fileExt)
}

// Get implements Backend.
func (b *FileBackend) Get(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	path := b.Path(key)

	// Windows refuses to replace a file another handle has open, so reads
	// wait for a running Set.
	unlock, err := filelock.RLock(filelock.For(path))
	if err != nil {
		return nil, fmt.Errorf("acquiring read lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	data, err := os.ReadFile(path) //nolint:gosec // path built from validated key
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Set implements Backend.
func (b *FileBackend) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	path := b.Path(key)

	unlock, err := filelock.Lock(filelock.For(path))
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	tmp, err := os.CreateTemp(b.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}
