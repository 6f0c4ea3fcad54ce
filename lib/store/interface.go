package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IDocumentStore is the generic interface for interacting with a document
// oriented key–value store. The store persists a single Document (a mapping
// from string keys to arbitrary JSON-shaped values); every operation treats
// the persisted document as ground truth.
//
// All write operations return only an error (nil on success), while read
// operations return the requested data along with an error (nil on success).
// Mutating operations on the same store are totally ordered: each one sees
// the fully applied effect of every mutation that completed before it.
type IDocumentStore interface {
	// Get returns the value for a key. The boolean return value indicates
	// whether a value for the key was found.
	Get(key string) (value any, loaded bool, err error)
	// Set inserts or updates a key–value pair. The value must be
	// JSON-serializable.
	Set(key string, value any) (err error)
	// Update merges the partial mapping into the existing value for the key.
	// Keys of the partial overwrite existing fields of the same name, all
	// other existing fields are retained. If the key is absent or its value
	// is not a mapping, the value is replaced wholesale with the partial.
	Update(key string, partial map[string]any) (err error)
	// Delete removes a key–value pair. Deleting an absent key is a no-op.
	Delete(key string) (err error)
	// Increment atomically adds delta to a numeric field of the mapping
	// stored under key and returns the new field value. An absent key is
	// created as an empty mapping, an absent field is treated as zero.
	// If the existing value for the key is not a mapping, the operation
	// fails with RetCInvalidFieldType and the document is left unchanged.
	Increment(key, field string, delta int64) (value int64, err error)
	// Has returns whether a key exists in the store.
	Has(key string) (loaded bool, err error)
	// Keys returns all keys of the document in ascending lexicographic order.
	Keys() (keys []string, err error)
	// Clear resets the store to the empty document.
	Clear() (err error)
	// Info returns metadata about the backend underlying the store.
	// It is not guaranteed that all fields are filled in by every backend.
	Info() (info StoreInfo, err error)
}

// --------------------------------------------------------------------------
// Store Metadata
// --------------------------------------------------------------------------

type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// StoreInfo holds metadata about a store backend.
type StoreInfo struct {
	Backend   Backend `json:"backend"`
	Path      string  `json:"path,omitempty"`
	SizeBytes int64   `json:"size_bytes"`
	NumKeys   int     `json:"num_keys"`
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCStorageUnavailable:
		errorCode = "StorageUnavailable"
	case RetCCorruptDocument:
		errorCode = "CorruptDocument"
	case RetCInvalidFieldType:
		errorCode = "InvalidFieldType"
	case RetCLockTimeout:
		errorCode = "LockTimeout"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("DocumentStoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// NewErrorf creates a new store Error with the given code and formatted message.
func NewErrorf(code RetCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// CodeOf extracts the RetCode from an error. It returns RetCSuccess for a
// nil error and RetCInternalError for errors that are not store errors.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return RetCInternalError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess            RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                     // 1: Operation failed due to an internal error.
	RetCStorageUnavailable                // 2: The document or lock file cannot be created or opened.
	RetCCorruptDocument                   // 3: The existing document file does not parse as a mapping.
	RetCInvalidFieldType                  // 4: Increment targets a key whose value is not a mapping (or not numeric).
	RetCLockTimeout                       // 5: The exclusive lock was not acquired within the configured wait.
)
