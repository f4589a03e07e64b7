package repo

import (
	"fmt"
	"os"
	"time"
)

const lockRetryDelay = 5 * time.Millisecond

// lockedFile guards one repository file (index, HEAD) with a sibling .lock
// file created O_EXCL. The lock file doubles as the scratch file for the
// atomic rewrite: publishing new content renames the lock over the resource,
// which also releases the lock. Every read-modify-write of a guarded file
// must run between lockFile and Release/Commit so that concurrent
// invocations serialize instead of losing updates.
type lockedFile struct {
	path      string
	lockPath  string
	lock      *os.File
	committed bool
}

// lockFile acquires the exclusive lock for path, blocking until the current
// holder releases it. There is no deadline: invocations wait, they do not
// time out.
func lockFile(path string) (*lockedFile, error) {
	lockPath := path + ".lock"
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return &lockedFile{path: path, lockPath: lockPath, lock: f}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquire lock %q: %w", lockPath, err)
		}
		time.Sleep(lockRetryDelay)
	}
}

// Commit writes data to the lock file, syncs it, and renames it over the
// guarded file, atomically publishing the new content and releasing the
// lock.
func (lf *lockedFile) Commit(data []byte) error {
	if _, err := lf.lock.Write(data); err != nil {
		return fmt.Errorf("write %q: %w", lf.lockPath, err)
	}
	if err := lf.lock.Sync(); err != nil {
		return fmt.Errorf("sync %q: %w", lf.lockPath, err)
	}
	if err := lf.lock.Close(); err != nil {
		lf.lock = nil
		return fmt.Errorf("close %q: %w", lf.lockPath, err)
	}
	lf.lock = nil

	if err := os.Rename(lf.lockPath, lf.path); err != nil {
		return fmt.Errorf("rename %q: %w", lf.lockPath, err)
	}
	lf.committed = true
	return nil
}

// Release drops the lock without publishing anything. Safe to call
// unconditionally (including after Commit), so callers can defer it on every
// exit path.
func (lf *lockedFile) Release() {
	if lf.lock != nil {
		lf.lock.Close()
		lf.lock = nil
	}
	if !lf.committed {
		os.Remove(lf.lockPath)
	}
}
