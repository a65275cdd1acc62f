package refpack

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// ============================================================
// CBOR Table Codec
// ============================================================
//
// Binary table encoding for storage and transport. Same table shape as
// JSON; canonical encode options keep output deterministic.

var (
	cborEnc, _ = cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	cborDec, _ = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
)

// CBORCodec implements Codec over CBOR.
type CBORCodec struct{}

// ContentType returns the CBOR MIME type.
func (CBORCodec) ContentType() string { return "application/cbor" }

// Marshal encodes a table as a CBOR array.
func (CBORCodec) Marshal(t Table) ([]byte, error) {
	return cborEnc.Marshal([]any(t))
}

// Unmarshal decodes a CBOR array into a table.
func (CBORCodec) Unmarshal(data []byte) (Table, error) {
	var raw any
	if err := cborDec.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("refpack: CBOR parse error: %w", err)
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, ErrInvalidInput
	}
	out := make(Table, len(arr))
	for i, e := range arr {
		out[i] = normalizeCBOR(e)
	}
	return out, nil
}

// normalizeCBOR rewrites a decoded CBOR tree into Table cell types:
// CBOR unsigned integers come back as uint64 and are folded to int64.
func normalizeCBOR(v any) any {
	switch n := v.(type) {
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeCBOR(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalizeCBOR(e)
		}
		return out
	default:
		return v
	}
}
