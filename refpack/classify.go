package refpack

// ============================================================
// Value Classification
// ============================================================
//
// Two rules decide table placement. They deliberately disagree on
// empty maps and lists: an empty ROOT map compacts to the degenerate
// [{}] table, while an empty NESTED map still gets its own slot. The
// asymmetry is inherited from the format and must not be "fixed" here;
// both sides of it are pinned by tests.
//
// Tuples never take a slot of their own in child position (their
// marker-list form is emitted inline where the tuple appeared), so
// needsReference excludes them; a root tuple still occupies entry 0
// via needsTableEntry.

// needsTableEntry reports whether a ROOT value requires a real table.
// False means Compact degenerates to the single-entry [root] form.
func needsTableEntry(v *Value) bool {
	if v == nil {
		return false
	}
	switch v.kind {
	case KindMap:
		return len(v.mapVal) > 0
	case KindList:
		return len(v.listVal) > 0
	case KindTuple, KindRecord, KindStr:
		return true
	case KindSymbol:
		return !isSentinelName(v.strVal)
	default:
		return false
	}
}

// needsReference reports whether a CHILD value is replaced by a table
// index wherever it appears. Broader than needsTableEntry: empty
// composites in child position do get slots.
func needsReference(v *Value) bool {
	if v == nil {
		return false
	}
	switch v.kind {
	case KindMap, KindList, KindRecord, KindStr:
		return true
	case KindSymbol:
		return !isSentinelName(v.strVal)
	default:
		return false
	}
}

// isSentinelName reports whether a symbol name is one of the reserved
// primitive sentinels. Sym normalizes these at construction; the check
// here keeps the classifier safe against hand-built values.
func isSentinelName(name string) bool {
	return name == "null" || name == "true" || name == "false"
}
