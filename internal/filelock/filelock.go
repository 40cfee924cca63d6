// Package filelock provides advisory file locking so that several tasklanes
// processes (the TUI and one-shot CLI commands) never interleave writes to
// the same storage key.
package filelock

import "os"

const lockFileMode = 0o600

// Suffix is appended to a data file path to name its lock file.
const Suffix = ".lock"

// Mode selects a shared or exclusive lock.
type Mode int

const (
	// Shared locks may be held by many readers at once.
	Shared Mode = iota
	// Exclusive locks exclude every other holder.
	Exclusive
)

// Lock acquires an exclusive advisory lock on the file at path, creating it
// if it does not exist. The returned function releases the lock.
func Lock(path string) (unlock func() error, err error) {
	return acquire(path, Exclusive)
}

// RLock acquires a shared lock on the file at path. Holders of RLock block
// Lock callers and the other way round.
func RLock(path string) (unlock func() error, err error) {
	return acquire(path, Shared)
}

func acquire(path string, mode Mode) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f, mode); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// For returns the lock file path guarding the data file at path.
func For(path string) string {
	return path + Suffix
}
