package lockmgr

// ILockManager defines the interface for a lock provider guarding a shared
// resource identified by a name (for file locks: the lock file path).
type ILockManager interface {
	// WithLock runs op with the guarantee that no other cooperating caller
	// (thread or OS process) is concurrently inside its own WithLock call
	// for the same resource. The lock is released on every exit path of op,
	// including panics and error returns.
	//
	// Acquiring the lock is the only blocking point: the caller suspends
	// until the lock is granted, or until the configured timeout elapses
	// (in which case a store.Error with code RetCLockTimeout is returned
	// and op is never invoked).
	WithLock(op func() error) error
}
