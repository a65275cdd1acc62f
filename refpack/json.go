package refpack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================
// JSON Table Codec
// ============================================================
//
// JSON is the canonical external format: a table is a JSON array whose
// cells are JSON-native values. Decoding goes through json.Number so
// integers survive the cycle instead of collapsing to float64.

// EncodeJSON marshals a table to JSON bytes.
func EncodeJSON(t Table) ([]byte, error) {
	return json.Marshal([]any(t))
}

// DecodeJSON parses JSON bytes into a table.
func DecodeJSON(data []byte) (Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("refpack: JSON parse error: %w", err)
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, ErrInvalidInput
	}
	out := make(Table, len(arr))
	for i, e := range arr {
		out[i] = normalizeJSON(e)
	}
	return out, nil
}

// normalizeJSON rewrites a decoded JSON tree into the cell types a
// Table carries: json.Number becomes int64 when the literal has no
// fraction or exponent, float64 otherwise.
func normalizeJSON(v any) any {
	switch n := v.(type) {
	case json.Number:
		if !strings.ContainsAny(string(n), ".eE") {
			if i, err := n.Int64(); err == nil {
				return i
			}
		}
		f, _ := n.Float64()
		return f
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeJSON(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalizeJSON(e)
		}
		return out
	default:
		return v
	}
}

// JSONCodec implements Codec over the canonical JSON table format.
type JSONCodec struct{}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string { return "application/json" }

// Marshal encodes a table as a JSON array.
func (JSONCodec) Marshal(t Table) ([]byte, error) { return EncodeJSON(t) }

// Unmarshal decodes a JSON array into a table.
func (JSONCodec) Unmarshal(data []byte) (Table, error) { return DecodeJSON(data) }
