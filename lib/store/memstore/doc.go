// Package memstore implements a process-local, ephemeral document store
// based on the store.IDocumentStore interface. It is a thin wrapper around
// a concurrent map: nothing is persisted and nothing is shared across
// process boundaries.
//
// Per-key atomicity (Update merges, Increment read-modify-write) is
// provided by the map's Compute primitive, which runs the mutation function
// under the key's internal bucket lock. There is no cross-key or
// whole-document snapshot consistency; Keys and Info observe the map while
// it may be concurrently modified.
//
// Values are copied on the way in and out: Get returns a private snapshot,
// Set copies its input and mutations replace records wholesale instead of
// patching them in place. A fetched value never aliases live store state,
// matching the isolation a file-backed store gets from re-decoding.
//
// Suitable Use Cases:
//   - Tests exercising store semantics without touching the filesystem
//   - Runtime caching and scratch state within a single process
//
// For durable, cross-process storage use the fstore package instead.
package memstore
