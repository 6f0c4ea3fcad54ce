package codec

import "github.com/mwerner/flatkv/lib/store"

// ICodec is the interface for all document codecs. A codec turns the
// in-memory document into the byte representation persisted on disk and
// back. The persisted representation is always a single JSON object, the
// codecs only differ in encoder implementation and cosmetic formatting.
type ICodec interface {
	// Encode serializes a document into a byte array.
	// It returns the serialized byte array and an error if any.
	Encode(doc store.Document) ([]byte, error)
	// Decode deserializes a byte array into a document.
	// It returns the decoded document and an error if any.
	Decode(b []byte) (store.Document, error)
	// Name returns the identifier of the codec (used for configuration).
	Name() string
}
