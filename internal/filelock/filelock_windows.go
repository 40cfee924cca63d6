//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

const (
	lockfileExclusiveLock   = 0x00000002
	lockfileFailImmediately = 0x00000001
	retryInterval           = time.Millisecond
)

// lockFile polls with LOCKFILE_FAIL_IMMEDIATELY. A blocking LockFileEx would
// park the OS thread underneath the Go scheduler.
func lockFile(f *os.File, mode Mode) error {
	flags := uint32(lockfileFailImmediately)
	if mode == Exclusive {
		flags |= lockfileExclusiveLock
	}
	ol := new(windows.Overlapped)
	for {
		err := windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, 1, 0, ol)
		if err == nil {
			return nil
		}
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return err
		}
		time.Sleep(retryInterval)
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, new(windows.Overlapped))
}
