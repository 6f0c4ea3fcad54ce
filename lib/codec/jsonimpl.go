package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mwerner/flatkv/lib/store"
)

const jsonIndent = "  "

// NewJSONCodec creates a new codec using the standard library json encoding.
// Documents are pretty-printed with two-space indentation. The indentation
// is cosmetic and not load-bearing for correctness, it keeps the document
// file readable for humans.
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ICodec interface using encoding/json
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c jsonCodecImpl) Encode(doc store.Document) ([]byte, error) {
	if doc == nil {
		doc = store.NewDocument()
	}
	b, err := json.MarshalIndent(doc, "", jsonIndent)
	if err != nil {
		return nil, err
	}
	// trailing newline so the file ends like a text file should
	return append(b, '\n'), nil
}

func (c jsonCodecImpl) Decode(b []byte) (store.Document, error) {
	doc := store.NewDocument()
	// decode numbers as json.Number so counters survive the round trip
	// exactly, a float64 detour would truncate beyond 2^53
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("document is not a valid JSON mapping: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("document is not a valid JSON mapping: trailing data")
	}
	return doc, nil
}

func (c jsonCodecImpl) Name() string {
	return "json"
}
