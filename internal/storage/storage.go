// Package storage provides the single-key durable storage the task store
// mirrors its state into. A key holds one opaque value; the store decides the
// encoding.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid storage key")
)

// Backend reads and writes whole values by key.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(key string, value []byte) error
}

// Kind names a backend implementation in the config file.
type Kind string

const (
	KindFile   Kind = "file"
	KindMemory Kind = "memory"
)

// Kinds returns the accepted backend names.
func Kinds() []string {
	return []string{string(KindFile), string(KindMemory)}
}

// Open returns the backend of the given kind rooted at dir.
func Open(kind Kind, dir string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileBackend(dir)
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (allowed: %s)", kind, strings.Join(Kinds(), ", "))
	}
}

// ValidateKey rejects keys that are empty or could escape the storage directory.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
