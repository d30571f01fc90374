package storage

import (
	"os"
	"syscall"
	"time"
)

// lockPollInterval is how often a blocked Lock re-attempts the flock.
const lockPollInterval = 10 * time.Millisecond

// FileLock serializes access to a store file across processes using an
// advisory flock(2) on a sidecar ".lock" file. Within a process the store's
// own mutex does the serializing; the file lock covers concurrent processes
// sharing one log file.
type FileLock struct {
	lockPath string
	handle   *os.File
}

// NewFileLock prepares a lock guarding path. Nothing is acquired until
// Lock is called; the sidecar file is path + ".lock".
func NewFileLock(path string) *FileLock {
	return &FileLock{lockPath: path + ".lock"}
}

// Lock acquires the exclusive lock, polling until the timeout elapses.
// A holder that never releases surfaces as ErrLockTimeout rather than a
// hang.
func (l *FileLock) Lock(timeout time.Duration) error {
	f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return &StorageError{Op: "lock", Entity: "store", ID: l.lockPath, Err: err}
	}

	for waited := time.Duration(0); ; waited += lockPollInterval {
		if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err == nil {
			l.handle = f
			return nil
		}
		if waited >= timeout {
			f.Close()
			return ErrLockTimeout
		}
		time.Sleep(lockPollInterval)
	}
}

// Unlock releases the lock and removes the sidecar file. Calling Unlock
// without holding the lock is a no-op.
func (l *FileLock) Unlock() error {
	if l.handle == nil {
		return nil
	}
	err := syscall.Flock(int(l.handle.Fd()), syscall.LOCK_UN)
	l.handle.Close()
	os.Remove(l.lockPath)
	l.handle = nil
	return err
}
