package store

import (
	"encoding/json"
	"math"
	"sort"
)

// --------------------------------------------------------------------------
// Document Model
// --------------------------------------------------------------------------

// Document is the entire persisted state of a store: a mapping from string
// keys to arbitrary JSON-shaped values (nil, bool, json.Number, string,
// []any or map[string]any after decoding). The document is always replaced
// wholesale on mutation, it is never patched on disk.
type Document map[string]any

// NewDocument creates an empty document.
func NewDocument() Document {
	return Document{}
}

// Keys returns the keys of the document in ascending lexicographic order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsMapping converts a document value to a mapping. The boolean return
// value indicates whether the value is mapping shaped. Both map[string]any
// (the decoded form) and Document itself are accepted.
func AsMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}

// MergeFields merges the partial mapping into the value stored under key,
// field by field: keys of the partial overwrite existing fields of the same
// name, other existing fields are retained. If the key is absent or its
// current value is not a mapping, the value is replaced wholesale with a
// copy of the partial.
func (d Document) MergeFields(key string, partial map[string]any) {
	if existing, ok := d[key]; ok {
		if m, isMapping := AsMapping(existing); isMapping {
			for f, v := range partial {
				m[f] = v
			}
			d[key] = m
			return
		}
	}
	replacement := make(map[string]any, len(partial))
	for f, v := range partial {
		replacement[f] = v
	}
	d[key] = replacement
}

// --------------------------------------------------------------------------
// Value Copying
// --------------------------------------------------------------------------

// CloneValue returns a deep copy of a JSON-shaped value. Mappings and lists
// are copied recursively, scalar values are returned as-is. Backends that
// hold values in memory use this to keep fetched and stored values from
// aliasing their internal state.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		clone := make(map[string]any, len(val))
		for k, f := range val {
			clone[k] = CloneValue(f)
		}
		return clone
	case Document:
		return CloneValue(map[string]any(val))
	case []any:
		clone := make([]any, len(val))
		for i, f := range val {
			clone[i] = CloneValue(f)
		}
		return clone
	default:
		return v
	}
}

// --------------------------------------------------------------------------
// Numeric Coercion
// --------------------------------------------------------------------------

// CoerceInt64 converts a JSON-shaped numeric value to int64. Decoded JSON
// numbers arrive as json.Number and keep their exact integer value, even
// beyond the float64 mantissa. Integral floats are accepted, fractional
// values and non-numeric types are rejected.
func CoerceInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return CoerceInt64(f)
		}
		return 0, false
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
