// Package testing provides a shared conformance test suite for
// IDocumentStore implementations. Backend packages call
// RunDocumentStoreTests with a factory for their implementation so that
// every backend is held to the same behavioral contract: merge semantics of
// Update, the increment type guard, no-op deletes of absent keys, sorted
// key listings and so on.
//
// Backend-specific behavior (file layout, locking, crash atomicity,
// cross-process coordination) is tested in the backend's own package.
package testing
