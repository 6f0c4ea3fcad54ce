// Package fstore implements a file-backed document store based on the
// store.IDocumentStore interface. The entire document is persisted as one
// JSON file; a sibling lock file coordinates concurrent mutators, including
// mutators living in separate OS processes.
//
// Key Features:
//   - Atomic persistence through temp-file-then-rename replacement: a
//     reader never observes a torn or partially written document
//   - Cross-process mutual exclusion through OS advisory file locks
//   - Idempotent initialization safe for concurrent construction
//   - Pluggable document codecs (pretty JSON by default)
//   - Per-operation metrics and lock wait timing
//
// Implementation Details:
//
//   - Read-Modify-Write Cycle: Every mutation acquires the exclusive lock,
//     reads the full document, applies the change in memory and atomically
//     rewrites the full document. This serializes the classic
//     read-modify-write race: without the lock, two concurrent mutators
//     could each read the same state and silently overwrite each other's
//     update. With it, mutations are linearizable.
//
//   - Whole-Document Rewrites: The persisted format has no internal
//     indexing, it is a single serialized object. Any mutation therefore
//     reads and rewrites the entire document, even when only one key
//     changes. This is a simplicity/correctness tradeoff, not a
//     performance-optimal design; workloads with large documents should
//     use an embedded engine instead.
//
//   - Unlocked Reads: By default Get, Has and Keys skip the lock. The
//     atomic writer guarantees they always see a whole document, but it may
//     be the state from before a concurrently in-flight mutation. Callers
//     that need reads ordered with mutations set Options.StrictReads.
//
//   - Advisory Scope: The guarantees only hold for writers that go through
//     this package (or cooperating implementations using the same lock
//     path). A process writing the document file directly is not
//     restrained.
//
// File Layout:
//
//	users.json        the document (entire serialized state)
//	users.lock        lock file, content irrelevant, exists to be locked
//	users.json.tmp-*  transient, present only during a write window
//
// Usage Example:
//
//	s, err := fstore.New("/var/data/users.json", fstore.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//
//	err = s.Set("user:123", map[string]any{"email": "user@example.com"})
//	value, found, err := s.Get("user:123")
//	count, err := s.Increment("stats", "logins", 1)
package fstore
