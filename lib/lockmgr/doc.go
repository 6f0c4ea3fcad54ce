// Package lockmgr implements exclusive mutual exclusion scoped to a named
// lock file, backed by the operating system's advisory file locks. It
// provides a simple yet robust way to coordinate access to shared resources
// across multiple processes, not just threads.
//
// The lock manager has no internal state beyond the lock file path.
// Therefore it is safe to create multiple managers for the same path, even
// one per operation: as long as the same path is used every time, all locks
// work as expected.
//
// Core Functionality:
//   - Scoped acquisition (WithLock) with guaranteed release on every exit
//     path of the guarded operation
//   - Blocking acquisition by default, optional bounded wait with a
//     fail-fast lock timeout error
//   - Cross-process mutual exclusion through OS advisory locks
//
// Implementation Approach:
//
//	Locks are implemented on the platform's advisory lock primitive: flock
//	on Unix systems, LockFileEx on Windows. The lock file is opened
//	(created if absent) and locked exclusively; its content is never
//	written or parsed, the file exists purely to be locked.
//
//	- Scoped Release: WithLock releases the lock and closes the handle via
//	  defer, so the release also happens when the guarded operation panics
//	  or returns an error. Closing the descriptor alone would already drop
//	  the lock, the explicit unlock just hands it over immediately.
//
//	- Crash Safety: Advisory locks are owned by the operating system, not
//	  by this process's memory. If the holder terminates abnormally, the OS
//	  releases the lock automatically. This is the property that makes the
//	  mechanism suitable for cross-process coordination where an in-process
//	  mutex is insufficient.
//
//	- Bounded Wait: With a positive timeout the manager polls a
//	  non-blocking acquisition at a short interval until the deadline and
//	  then fails with store.RetCLockTimeout, so a crashed-but-not-reaped or
//	  misbehaving holder cannot starve callers forever.
//
// Advisory Semantics:
//
//	The locks only constrain cooperating callers that go through the same
//	lock path. A process that writes the guarded resource directly, without
//	taking the lock, is not restrained in any way. Correctness of the
//	overall system is conditional on all writers using the same
//	coordination path.
//
// Usage Example:
//
//	lock := lockmgr.NewFileLockManager("/var/data/app.lock", 0)
//
//	err := lock.WithLock(func() error {
//	    // read-modify-write the shared resource here
//	    return nil
//	})
package lockmgr
