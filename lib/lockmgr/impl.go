package lockmgr

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mwerner/flatkv/lib/store"
)

// pollInterval is the retry interval for bounded-wait acquisition.
const pollInterval = 5 * time.Millisecond

type fileLockImpl struct {
	path    string
	timeout time.Duration
}

// NewFileLockManager creates a lock manager backed by an OS advisory lock
// on the file at lockPath. The file is created if absent, its content is
// irrelevant (it exists purely to be locked, never parsed).
//
// A timeout of zero means block forever until the lock is granted. A
// positive timeout bounds the wait; acquisition past the deadline fails
// with store.RetCLockTimeout.
//
// The lock is scoped to the path: two managers pointed at the same lock
// file serialize against each other even across process boundaries, two
// managers pointed at different files never contend. The OS releases the
// lock automatically if the holding process terminates, which is what
// makes this safe for cross-process coordination where an in-process
// mutex would not be.
func NewFileLockManager(lockPath string, timeout time.Duration) ILockManager {
	return &fileLockImpl{
		path:    lockPath,
		timeout: timeout,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see lockmgr/interface.go)
// --------------------------------------------------------------------------

func (l *fileLockImpl) WithLock(op func() error) error {
	f, err := l.acquire()
	if err != nil {
		return err
	}
	// closing the handle also drops the lock should the explicit unlock fail
	defer func() {
		_ = unlockFile(f)
		_ = f.Close()
	}()

	return op()
}

// --------------------------------------------------------------------------
// Acquisition
// --------------------------------------------------------------------------

// acquire opens (creating if absent) the lock file and takes the exclusive
// lock, blocking or polling depending on the configured timeout.
func (l *fileLockImpl) acquire() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, store.NewErrorf(store.RetCStorageUnavailable,
			"cannot create lock file directory %s: %v", filepath.Dir(l.path), err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, store.NewErrorf(store.RetCStorageUnavailable,
			"cannot open lock file %s: %v", l.path, err)
	}

	if l.timeout <= 0 {
		if err := lockFile(f); err != nil {
			f.Close()
			return nil, store.NewErrorf(store.RetCStorageUnavailable,
				"cannot lock %s: %v", l.path, err)
		}
		return f, nil
	}

	deadline := time.Now().Add(l.timeout)
	for {
		ok, err := tryLockFile(f)
		if err != nil {
			f.Close()
			return nil, store.NewErrorf(store.RetCStorageUnavailable,
				"cannot lock %s: %v", l.path, err)
		}
		if ok {
			return f, nil
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, store.NewErrorf(store.RetCLockTimeout,
				"lock on %s not acquired within %v", l.path, l.timeout)
		}
		time.Sleep(pollInterval)
	}
}
