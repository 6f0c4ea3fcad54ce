// Package codec provides pluggable serialization for the persisted
// document. A codec converts between the in-memory store.Document and the
// byte representation written to disk by the atomic writer.
//
// Two implementations are provided:
//
//   - JSON (NewJSONCodec): encoding/json with two-space indentation. This
//     is the default and matches the human-readable on-disk format the
//     store has always used.
//
//   - JSONIter (NewJSONIterCodec): json-iterator with compact output, for
//     workloads where encoding throughput of large documents matters.
//
// Both codecs read and write standard JSON objects, so switching codecs on
// an existing document file is safe in either direction.
package codec
