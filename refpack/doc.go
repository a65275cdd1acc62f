// Package refpack implements REFPACK, a structural-deduplication codec.
//
// REFPACK flattens an arbitrarily nested value into a flat, JSON-safe
// table in which every repeated composite or string sub-value is stored
// exactly once and referenced by index everywhere else, and it
// reconstructs the original nested value from that table.
//
// REFPACK is designed to be:
//   - Structure-sharing (repeated sub-values stored once, referenced by index)
//   - JSON-safe (the table survives a generic JSON encode/decode cycle)
//   - Deterministic (equal inputs compact to byte-identical tables)
//   - Round-trippable (Decompact(Compact(v)) equals v)
//   - Defensive (dangling and circular references are decode errors)
//
// # Data Model
//
// Scalars: null, bool, int, float, str, symbol
// Containers: list, tuple (fixed arity), map, record (typed fields)
//
// # Table Format
//
// A table is a flat sequence. Entry 0 encodes the root; the remaining
// entries encode referenced sub-values in breadth-first discovery order:
//
//	Compact({"u1": m, "u2": m})   where m = {"name": "Alice"}
//	→ [{"u1": "1", "u2": "1"}, {"name": "2"}, "Alice"]
//
// Reference:  decimal string naming a table index ("1", "2", ...)
// Symbol:     string prefixed "_:"     ("_:ok")
// Symbol key: string prefixed ":"      (":name")
// Tuple:      list led by "__tuple__"  (["__tuple__", 1, "2"])
// Record:     map carrying "__struct__" naming the original type
//
// # Decoding Untrusted Input
//
// Decompact never synthesizes symbols or record types from input: a
// "_:"-prefixed string only becomes a symbol, and a "__struct__" map
// only becomes a record, when the name is present in the Registry.
// Unknown names stay plain strings and plain maps.
package refpack
