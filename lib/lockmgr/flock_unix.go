//go:build unix

package lockmgr

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes a blocking exclusive flock on the open file.
func lockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

// tryLockFile attempts a non-blocking exclusive flock. The boolean return
// value indicates whether the lock was acquired; a held lock is not an error.
func tryLockFile(f *os.File) (bool, error) {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == unix.EWOULDBLOCK || err == unix.EAGAIN {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// unlockFile releases the flock. Closing the file descriptor would release
// it as well, the explicit unlock just makes the hand-over immediate.
func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
