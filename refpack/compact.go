package refpack

import (
	"strconv"
)

// Wire format markers shared by Compact and Decompact.
const (
	tupleTag  = "__tuple__"  // first element of an encoded tuple
	structKey = "__struct__" // reserved record discriminator key
	symPrefix = "_:"         // encoded symbol value prefix
	keyPrefix = ":"          // encoded symbol map-key prefix
)

// Table is the flat, JSON-safe artifact produced by Compact. Entry 0
// encodes the root; remaining entries hold referenced sub-values.
// Entries contain only nil, bool, int64, float64, string, []any and
// map[string]any.
type Table []any

// Compact flattens a value into a Table, storing every distinct
// referenceable sub-value exactly once and referencing it by decimal
// index string everywhere it recurs. Compact is total: every value has
// an encoding.
//
// Traversal is breadth-first from the root; indices are assigned in
// queue (discovery) order, so structurally equal inputs compact to
// identical tables.
func Compact(v *Value) Table {
	if !needsTableEntry(v) {
		return Table{encodeInline(v)}
	}

	c := &collector{index: make(map[string]int)}
	c.collect(v)

	table := make(Table, len(c.ordered))
	for i, val := range c.ordered {
		table[i] = c.serialize(val)
	}
	return table
}

// ============================================================
// Collector
// ============================================================

// collector walks the value graph breadth-first, assigning each
// distinct referenceable value a stable table index. All state is
// owned by one Compact call; nothing is shared.
type collector struct {
	index   map[string]int // canonical key → table index
	ordered []*Value       // values in index order
	queue   []*Value
}

func (c *collector) collect(root *Value) {
	// The root always holds entry 0, even when (as for tuples) it
	// would not be referenceable in child position.
	c.assign(root)
	c.pushChildren(root)

	for len(c.queue) > 0 {
		v := c.queue[0]
		c.queue = c.queue[1:]

		if _, seen := c.index[canonKey(v)]; seen {
			continue // dedup point
		}
		if needsReference(v) {
			c.assign(v)
			c.pushChildren(v)
		} else if v.Kind() == KindTuple {
			// Tuples are inlined where they appear: no slot of
			// their own, but their elements are still collected.
			c.pushChildren(v)
		}
	}
}

func (c *collector) assign(v *Value) {
	c.index[canonKey(v)] = len(c.ordered)
	c.ordered = append(c.ordered, v)
}

// pushChildren enqueues the values a composite can reference: list and
// tuple elements, map values, record field values, and the record's
// type-name string. Map and record keys are never referenced; they are
// encoded inline (see encodeMapKey). Map and record entries are walked
// in canonical order (canonOrder), not construction order, so equal
// values always assign the same indices.
func (c *collector) pushChildren(v *Value) {
	switch v.kind {
	case KindList, KindTuple:
		c.queue = append(c.queue, v.listVal...)
	case KindMap:
		for _, e := range canonOrder(v.mapVal) {
			c.queue = append(c.queue, e.Value)
		}
	case KindRecord:
		c.queue = append(c.queue, Str(v.recVal.TypeName))
		for _, e := range canonOrder(v.recVal.Fields) {
			c.queue = append(c.queue, e.Value)
		}
	}
}

// ============================================================
// Type Serializer
// ============================================================

// serialize produces the table entry for a collected value, with all
// referenceable children substituted by their index strings.
func (c *collector) serialize(v *Value) any {
	switch v.kind {
	case KindStr:
		return v.strVal
	case KindSymbol:
		return symPrefix + v.strVal
	case KindList:
		out := make([]any, len(v.listVal))
		for i, e := range v.listVal {
			out[i] = c.child(e)
		}
		return out
	case KindTuple:
		// Only reachable for a root tuple; child tuples inline
		// through c.child.
		return c.encodeTuple(v)
	case KindMap:
		return c.serializeEntries(v.mapVal, "")
	case KindRecord:
		return c.serializeEntries(v.recVal.Fields, v.recVal.TypeName)
	default:
		return encodeInline(v)
	}
}

func (c *collector) serializeEntries(entries []Entry, typeName string) map[string]any {
	out := make(map[string]any, len(entries)+1)
	for _, e := range entries {
		out[encodeMapKey(e.Key)] = c.child(e.Value)
	}
	if typeName != "" {
		out[structKey] = c.child(Str(typeName))
	}
	return out
}

// child encodes a value in child position: an index string when
// referenceable, an inline marker list for tuples, the raw primitive
// otherwise.
func (c *collector) child(v *Value) any {
	if v.Kind() == KindTuple {
		return c.encodeTuple(v)
	}
	if needsReference(v) {
		return strconv.Itoa(c.index[canonKey(v)])
	}
	return encodeInline(v)
}

func (c *collector) encodeTuple(v *Value) []any {
	out := make([]any, 0, len(v.listVal)+1)
	out = append(out, tupleTag)
	for _, e := range v.listVal {
		out = append(out, c.child(e))
	}
	return out
}

// encodeMapKey encodes a map or record key. Symbol keys become
// ":"-prefixed strings, string keys pass through. Other scalar key
// kinds fall back to their literal form so Compact stays total; they
// decode as plain string keys.
func encodeMapKey(k *Value) string {
	switch k.Kind() {
	case KindSymbol:
		return keyPrefix + k.strVal
	case KindStr:
		return k.strVal
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(k.boolVal)
	case KindInt:
		return strconv.FormatInt(k.intVal, 10)
	case KindFloat:
		return strconv.FormatFloat(k.floatVal, 'g', -1, 64)
	default:
		return canonKey(k)
	}
}

// encodeInline encodes a value that never takes a table slot: the
// primitives, and (root position only) empty maps and lists.
func encodeInline(v *Value) any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal
	case KindFloat:
		return v.floatVal
	case KindMap:
		return map[string]any{}
	case KindList:
		return []any{}
	default:
		return nil
	}
}
