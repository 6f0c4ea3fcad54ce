package codec

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/mwerner/flatkv/lib/store"
)

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() ICodec{
	"JSON":     NewJSONCodec,
	"JSONIter": NewJSONIterCodec,
}

// testDocuments creates a set of test documents with different value shapes
func testDocuments() []store.Document {
	return []store.Document{
		// Empty document
		{},

		// Flat record
		{
			"user:123": map[string]any{
				"email": "user@example.com",
				"phone": "555-0000",
			},
		},

		// Mixed value types, numbers in the decoded json.Number form
		{
			"string":  "value",
			"number":  json.Number("42"),
			"boolean": true,
			"null":    nil,
			"list":    []any{json.Number("1"), json.Number("2"), json.Number("3")},
		},

		// Nested mappings
		{
			"config": map[string]any{
				"nested": map[string]any{
					"deep": map[string]any{"leaf": "ok"},
				},
			},
		},
	}
}

// TestCodecRoundTrip tests that documents can be encoded and decoded correctly
func TestCodecRoundTrip(t *testing.T) {
	docs := testDocuments()

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			for i, doc := range docs {
				data, err := c.Encode(doc)
				if err != nil {
					t.Errorf("Failed to encode document %d: %v", i, err)
					continue
				}

				decoded, err := c.Decode(data)
				if err != nil {
					t.Errorf("Failed to decode document %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(doc, decoded) {
					t.Errorf("Document %d mismatch after round trip:\noriginal: %#v\ndecoded:  %#v", i, doc, decoded)
				}
			}
		})
	}
}

// TestCodecCrossRead tests that each codec can read what the other wrote
func TestCodecCrossRead(t *testing.T) {
	doc := store.Document{
		"counter": map[string]any{"value": json.Number("7")},
	}

	for writerName, writerFactory := range testCodecs {
		for readerName, readerFactory := range testCodecs {
			t.Run(writerName+"->"+readerName, func(t *testing.T) {
				data, err := writerFactory().Encode(doc)
				if err != nil {
					t.Fatalf("encode failed: %v", err)
				}

				decoded, err := readerFactory().Decode(data)
				if err != nil {
					t.Fatalf("decode failed: %v", err)
				}

				if !reflect.DeepEqual(doc, decoded) {
					t.Errorf("cross read mismatch:\noriginal: %#v\ndecoded:  %#v", doc, decoded)
				}
			})
		}
	}
}

// TestCodecPreservesLargeIntegers tests that counters beyond the float64
// mantissa survive a round trip without losing precision
func TestCodecPreservesLargeIntegers(t *testing.T) {
	const big = int64(9007199254740993) // 2^53 + 1

	doc := store.Document{
		"stats": map[string]any{"value": big},
	}

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			data, err := c.Encode(doc)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			decoded, err := c.Decode(data)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}

			record, ok := store.AsMapping(decoded["stats"])
			if !ok {
				t.Fatalf("expected mapping, got %T", decoded["stats"])
			}
			value, ok := store.CoerceInt64(record["value"])
			if !ok {
				t.Fatalf("expected integer value, got %#v", record["value"])
			}
			if value != big {
				t.Errorf("expected %d, got %d", big, value)
			}
		})
	}
}

// TestCodecRejectsNonMapping tests that a non-object top level value fails to decode
func TestCodecRejectsNonMapping(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			for _, payload := range []string{`[1, 2, 3]`, `"just a string"`, `42`, `{"broken":`, `{"a": 1} trailing`} {
				if _, err := factory().Decode([]byte(payload)); err == nil {
					t.Errorf("expected decode error for payload %q", payload)
				}
			}
		})
	}
}
