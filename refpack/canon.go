package refpack

import (
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Canonical Structural Keys
// ============================================================
//
// canonKey produces a canonical string form for any Value. It is the
// basis for structural equality (Value.Equal) and for deduplication in
// the collector: two values share a table slot exactly when their
// canonical keys match. Map and record entries are sorted by their
// entry key-form, so logically equal maps built in different orders
// still deduplicate to one slot.

// canonKey returns the canonical key for a value.
func canonKey(v *Value) string {
	var b strings.Builder
	writeCanon(&b, v)
	return b.String()
}

func writeCanon(b *strings.Builder, v *Value) {
	if v == nil {
		b.WriteByte('N')
		return
	}

	switch v.kind {
	case KindNull:
		b.WriteByte('N')
	case KindBool:
		if v.boolVal {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
	case KindInt:
		b.WriteByte('i')
		b.WriteString(strconv.FormatInt(v.intVal, 10))
	case KindFloat:
		b.WriteByte('d')
		b.WriteString(strconv.FormatFloat(v.floatVal, 'g', -1, 64))
	case KindStr:
		b.WriteByte('s')
		b.WriteString(strconv.Quote(v.strVal))
	case KindSymbol:
		b.WriteByte('y')
		b.WriteString(strconv.Quote(v.strVal))
	case KindList:
		b.WriteString("l[")
		writeCanonElems(b, v.listVal)
		b.WriteByte(']')
	case KindTuple:
		b.WriteString("t[")
		writeCanonElems(b, v.listVal)
		b.WriteByte(']')
	case KindMap:
		b.WriteString("m{")
		writeCanonEntries(b, v.mapVal)
		b.WriteByte('}')
	case KindRecord:
		b.WriteString("r<")
		b.WriteString(strconv.Quote(v.recVal.TypeName))
		b.WriteString(">{")
		writeCanonEntries(b, v.recVal.Fields)
		b.WriteByte('}')
	}
}

func writeCanonElems(b *strings.Builder, elems []*Value) {
	for _, e := range elems {
		writeCanon(b, e)
		b.WriteByte(';')
	}
}

// writeCanonEntries writes entries sorted by their full canonical form,
// making map/record canon keys independent of construction order.
func writeCanonEntries(b *strings.Builder, entries []Entry) {
	if len(entries) == 0 {
		return
	}
	forms := make([]string, len(entries))
	for i, e := range entries {
		forms[i] = canonEntryForm(e)
	}
	sort.Strings(forms)
	for _, f := range forms {
		b.WriteString(f)
	}
}

// canonEntryForm returns one entry's canonical "key=value;" form.
func canonEntryForm(e Entry) string {
	var b strings.Builder
	writeCanon(&b, e.Key)
	b.WriteByte('=')
	writeCanon(&b, e.Value)
	b.WriteByte(';')
	return b.String()
}

// canonOrder returns entries sorted by their canonical form. The
// collector traverses map and record entries in this order, so table
// index assignment depends only on structure, never on the order the
// entries were constructed in — the same order-insensitivity Equal
// gives the values themselves.
func canonOrder(entries []Entry) []Entry {
	if len(entries) < 2 {
		return entries
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		return canonEntryForm(out[i]) < canonEntryForm(out[j])
	})
	return out
}
