package refpack

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Decode errors
var (
	ErrInvalidInput  = errors.New("refpack: document is not a sequence")
	ErrEmptyDocument = errors.New("refpack: empty document")
)

// OutOfBoundsError reports a reference to an unpopulated table index.
type OutOfBoundsError struct {
	Ref    string // the reference string as it appeared
	Length int    // table length at decode time
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("refpack: reference %q out of bounds (table length %d)", e.Ref, e.Length)
}

// CircularReferenceError reports a reference chain that revisits an
// index currently being expanded.
type CircularReferenceError struct {
	Ref string // the index that closed the cycle
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("refpack: circular reference through index %q", e.Ref)
}

// DecodeOpts configures Decompact behavior.
type DecodeOpts struct {
	// Registry controls symbol and record reconstruction. Strings and
	// type names absent from it stay plain strings and plain maps.
	Registry *Registry
}

// DefaultDecodeOpts returns options backed by the package registry.
func DefaultDecodeOpts() DecodeOpts {
	return DecodeOpts{Registry: DefaultRegistry}
}

// Decompact reconstructs the value a Table encodes, using the package
// default registry. Decode is all-or-nothing: any reference error
// aborts with no partial result.
func Decompact(doc any) (*Value, error) {
	return DecompactWithOpts(doc, DefaultDecodeOpts())
}

// DecompactWithOpts reconstructs a value with explicit options.
func DecompactWithOpts(doc any, opts DecodeOpts) (*Value, error) {
	table, ok := asSequence(doc)
	if !ok {
		return nil, ErrInvalidInput
	}
	if len(table) == 0 {
		return nil, ErrEmptyDocument
	}

	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry
	}

	// A bare string at entry 0 is the degenerate lone-string root: a
	// standalone compacted string has no sibling table to reference,
	// so it is returned directly, never read as a reference.
	if s, ok := table[0].(string); ok {
		return decodeStringEntry(s, reg), nil
	}

	r := &resolver{
		entries: make(map[string]any, len(table)),
		length:  len(table),
		reg:     reg,
	}
	// String entries are pre-decoded once: a reference that lands on
	// one yields the string (or registered symbol) itself, terminally,
	// rather than re-entering reference resolution.
	for i, entry := range table {
		key := fmt.Sprintf("%d", i)
		if s, ok := entry.(string); ok {
			r.entries[key] = decodeStringEntry(s, reg)
		} else {
			r.entries[key] = entry
		}
	}

	visiting := map[string]bool{"0": true}
	return r.resolve(table[0], visiting)
}

// asSequence accepts the shapes a table may arrive in: the Table type
// itself, or the []any a generic JSON/CBOR decode produces.
func asSequence(doc any) ([]any, bool) {
	switch t := doc.(type) {
	case Table:
		return []any(t), true
	case []any:
		return t, true
	default:
		return nil, false
	}
}

// ============================================================
// Reference Resolver
// ============================================================

// resolver carries the call-local decode state: the index map, the
// table length for error reporting, and the registry. The visiting set
// travels on the call stack.
type resolver struct {
	entries map[string]any
	length  int
	reg     *Registry
}

// resolve reconstructs one node. Bare strings in node position are
// references; composite nodes recurse; primitives pass through.
// Already-resolved composite entries are not cached: a sub-value
// referenced k times is independently re-resolved k times.
func (r *resolver) resolve(node any, visiting map[string]bool) (*Value, error) {
	switch n := node.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(n), nil
	case int:
		return Int(int64(n)), nil
	case int64:
		return Int(n), nil
	case float64:
		return Float(n), nil
	case *Value:
		// Pre-decoded string entry: terminal.
		return n, nil
	case string:
		return r.deref(n, visiting)
	case []any:
		if len(n) > 0 {
			if tag, ok := n[0].(string); ok && tag == tupleTag {
				return r.resolveTuple(n[1:], visiting)
			}
		}
		return r.resolveList(n, visiting)
	case map[string]any:
		return r.resolveMap(n, visiting)
	default:
		return nil, fmt.Errorf("%w: unsupported entry type %T", ErrInvalidInput, node)
	}
}

// deref follows one reference string to its table entry.
func (r *resolver) deref(ref string, visiting map[string]bool) (*Value, error) {
	target, ok := r.entries[ref]
	if !ok {
		return nil, &OutOfBoundsError{Ref: ref, Length: r.length}
	}
	if visiting[ref] {
		return nil, &CircularReferenceError{Ref: ref}
	}
	visiting[ref] = true
	v, err := r.resolve(target, visiting)
	delete(visiting, ref)
	return v, err
}

func (r *resolver) resolveList(elems []any, visiting map[string]bool) (*Value, error) {
	out := make([]*Value, len(elems))
	for i, e := range elems {
		v, err := r.resolve(e, visiting)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return ListOf(out...), nil
}

func (r *resolver) resolveTuple(elems []any, visiting map[string]bool) (*Value, error) {
	out := make([]*Value, len(elems))
	for i, e := range elems {
		v, err := r.resolve(e, visiting)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return TupleOf(out...), nil
}

// resolveMap reconstructs a map entry, and, when it carries the
// discriminator and the registry knows the type, a record. Record
// construction failures degrade to the plain field map with the
// discriminator stripped; only reference errors abort.
func (r *resolver) resolveMap(obj map[string]any, visiting map[string]bool) (*Value, error) {
	var typeName string
	hasStruct := false

	if disc, ok := obj[structKey]; ok {
		hasStruct = true
		nameVal, err := r.resolve(disc, visiting)
		if err != nil {
			return nil, err
		}
		switch nameVal.Kind() {
		case KindStr, KindSymbol:
			typeName = nameVal.strVal
		}
	}

	fields := make([]Entry, 0, len(obj))
	for _, k := range sortedKeys(obj) {
		if k == structKey {
			continue
		}
		v, err := r.resolve(obj[k], visiting)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Entry{Key: r.decodeKey(k), Value: v})
	}

	if hasStruct && typeName != "" {
		if factory, ok := r.reg.LookupType(typeName); ok {
			if rec, err := factory(typeName, fields); err == nil {
				return rec, nil
			}
		}
	}
	return MapOf(fields...), nil
}

// decodeKey converts a ":"-prefixed key back to a symbol when the
// symbol is registered; everything else stays a literal string key.
func (r *resolver) decodeKey(k string) *Value {
	if name, ok := strings.CutPrefix(k, keyPrefix); ok && r.reg.HasSymbol(name) {
		return Sym(name)
	}
	return Str(k)
}

// sortedKeys returns map keys in sorted order so decoded field order
// is stable across runs. Equality is order-insensitive either way.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeStringEntry converts a "_:"-prefixed table entry back to a
// symbol when registered; unknown names stay opaque strings so decode
// never synthesizes symbols from untrusted input.
func decodeStringEntry(s string, reg *Registry) *Value {
	if name, ok := strings.CutPrefix(s, symPrefix); ok && reg.HasSymbol(name) {
		return Sym(name)
	}
	return Str(s)
}
