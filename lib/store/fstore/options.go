package fstore

import (
	"os"
	"time"

	"github.com/mwerner/flatkv/lib/codec"
)

// Options configures a file-backed document store.
type Options struct {
	// Codec serializes the document for persistence. Defaults to the
	// pretty-printing JSON codec.
	Codec codec.ICodec

	// StrictReads routes read-only operations (Get, Has, Keys) through the
	// same exclusive lock as mutations. By default reads skip the lock:
	// they can observe a state from before a concurrently in-flight
	// mutation, but thanks to the atomic writer never a torn one.
	StrictReads bool

	// LockTimeout bounds the wait for the exclusive lock. Zero means block
	// until the lock is granted.
	LockTimeout time.Duration

	// FileMode is the permission mode for the document file.
	FileMode os.FileMode
}

// DefaultOptions returns the default store configuration.
func DefaultOptions() Options {
	return Options{
		Codec:       codec.NewJSONCodec(),
		StrictReads: false,
		LockTimeout: 0,
		FileMode:    0o644,
	}
}

// withDefaults fills unset fields with their default values.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Codec == nil {
		o.Codec = def.Codec
	}
	if o.FileMode == 0 {
		o.FileMode = def.FileMode
	}
	return o
}
