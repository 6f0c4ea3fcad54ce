// Package store provides a high-level interface for document oriented
// key-value storage with unified error handling. It defines the data model
// (a single Document mapping string keys to arbitrary JSON-shaped values)
// and the IDocumentStore interface shared by all backends.
//
// The package focuses on:
//   - A unified interface (IDocumentStore) for document operations across
//     different backends
//   - A structured error reporting mechanism using typed error codes and
//     descriptive messages
//   - The Document data model with the field-merge and numeric coercion
//     rules shared by all implementations
//
// Key Components:
//
//   - IDocumentStore Interface: The core abstraction defining operations for
//     interacting with the store. All implementations share this common
//     interface, allowing applications to switch between backends without
//     code changes. The interface methods return custom Error values that
//     provide detailed information about operation results.
//
//   - Error System: Typed error codes (RetCode) distinguish storage
//     availability problems, corrupt documents, invalid field types and lock
//     timeouts, so applications can make informed decisions based on the
//     specific error condition rather than a generic error string.
//
//   - Document Model: The whole persisted state is one mapping. Every
//     mutation reads the full document, applies the change in memory and
//     rewrites the full document. This keeps the persisted format trivial
//     (one serialized object) at the cost of rewriting unrelated keys.
//
// Implementations:
//
//	The repository includes two implementations of the IDocumentStore
//	interface:
//
//	- File Store (fstore): Persists the document as a single JSON file and
//	  coordinates concurrent mutators (including separate OS processes) with
//	  an advisory file lock. This is the primary backend.
//	  Available in the "github.com/mwerner/flatkv/lib/store/fstore" package.
//
//	- Memory Store (memstore): A process-local, ephemeral implementation
//	  backed by a concurrent map. Suitable for tests and runtime caching.
//	  Available in the "github.com/mwerner/flatkv/lib/store/memstore" package.
package store
