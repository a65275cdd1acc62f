package refpack

import (
	"fmt"
)

// Kind represents REFPACK value kinds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindSymbol // Symbolic name: compacts to "_:name"
	KindList
	KindTuple // Fixed-arity sequence: compacts to ["__tuple__", ...]
	KindMap
	KindRecord // Typed record: compacts to a map carrying "__struct__"
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value represents a REFPACK value.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string // Str and Symbol both use strVal

	// Container values (List and Tuple both use listVal)
	listVal []*Value
	mapVal  []Entry
	recVal  *RecordValue
}

// Entry represents a key-value pair in a map or record.
// Keys are Str or Symbol values; see MapOf.
type Entry struct {
	Key   *Value
	Value *Value
}

// RecordValue represents a typed record.
type RecordValue struct {
	TypeName string  // The record type name (e.g., "User")
	Fields   []Entry // Field key → value pairs
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindStr, strVal: v}
}

// Sym creates a symbolic name value.
// The reserved names "null", "true" and "false" ARE the corresponding
// primitives in the source domain, so Sym normalizes them.
func Sym(name string) *Value {
	switch name {
	case "null":
		return Null()
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return &Value{kind: KindSymbol, strVal: name}
}

// ListOf creates a list value.
func ListOf(values ...*Value) *Value {
	return &Value{kind: KindList, listVal: values}
}

// TupleOf creates a tuple value.
func TupleOf(values ...*Value) *Value {
	return &Value{kind: KindTuple, listVal: values}
}

// MapOf creates a map value from entries.
// Entries keep construction order; equality and deduplication are
// order-insensitive (see Equal).
func MapOf(entries ...Entry) *Value {
	return &Value{kind: KindMap, mapVal: entries}
}

// Rec creates a typed record value.
func Rec(typeName string, fields ...Entry) *Value {
	return &Value{
		kind: KindRecord,
		recVal: &RecordValue{
			TypeName: typeName,
			Fields:   fields,
		},
	}
}

// Field creates an Entry with a string key.
func Field(key string, value *Value) Entry {
	return Entry{Key: Str(key), Value: value}
}

// SymField creates an Entry with a symbol key.
func SymField(name string, value *Value) Entry {
	return Entry{Key: Sym(name), Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil {
		return false, fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindBool {
		return false, fmt.Errorf("refpack: expected bool, got %s", v.kind)
	}
	return v.boolVal, nil
}

// AsInt returns the integer value.
func (v *Value) AsInt() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindInt {
		return 0, fmt.Errorf("refpack: expected int, got %s", v.kind)
	}
	return v.intVal, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindFloat {
		return 0, fmt.Errorf("refpack: expected float, got %s", v.kind)
	}
	return v.floatVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v == nil {
		return "", fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindStr {
		return "", fmt.Errorf("refpack: expected str, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsSym returns the symbol name.
func (v *Value) AsSym() (string, error) {
	if v == nil {
		return "", fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindSymbol {
		return "", fmt.Errorf("refpack: expected symbol, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsList returns the list elements.
func (v *Value) AsList() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindList {
		return nil, fmt.Errorf("refpack: expected list, got %s", v.kind)
	}
	return v.listVal, nil
}

// AsTuple returns the tuple elements.
func (v *Value) AsTuple() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindTuple {
		return nil, fmt.Errorf("refpack: expected tuple, got %s", v.kind)
	}
	return v.listVal, nil
}

// AsMap returns the map entries.
func (v *Value) AsMap() ([]Entry, error) {
	if v == nil {
		return nil, fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindMap {
		return nil, fmt.Errorf("refpack: expected map, got %s", v.kind)
	}
	return v.mapVal, nil
}

// AsRecord returns the record value.
func (v *Value) AsRecord() (*RecordValue, error) {
	if v == nil {
		return nil, fmt.Errorf("refpack: nil value")
	}
	if v.kind != KindRecord {
		return nil, fmt.Errorf("refpack: expected record, got %s", v.kind)
	}
	return v.recVal, nil
}

// Len returns the length of a list, tuple, map, or record.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindList, KindTuple:
		return len(v.listVal)
	case KindMap:
		return len(v.mapVal)
	case KindRecord:
		return len(v.recVal.Fields)
	default:
		return 0
	}
}

// Get returns a field value by key name from a map or record.
// Matches both string and symbol keys by name.
func (v *Value) Get(key string) *Value {
	if v == nil {
		return nil
	}
	var entries []Entry
	switch v.kind {
	case KindMap:
		entries = v.mapVal
	case KindRecord:
		entries = v.recVal.Fields
	default:
		return nil
	}
	for _, e := range entries {
		if e.Key != nil && (e.Key.kind == KindStr || e.Key.kind == KindSymbol) && e.Key.strVal == key {
			return e.Value
		}
	}
	return nil
}

// Index returns the i-th element of a list or tuple.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || (v.kind != KindList && v.kind != KindTuple) {
		return nil, fmt.Errorf("refpack: not a list or tuple")
	}
	if i < 0 || i >= len(v.listVal) {
		return nil, fmt.Errorf("refpack: index %d out of bounds (len=%d)", i, len(v.listVal))
	}
	return v.listVal[i], nil
}

// Number returns a numeric value as float64 if int or float.
func (v *Value) Number() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindInt:
		return float64(v.intVal), true
	case KindFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// Equal reports structural equality. Map and record entries compare
// order-insensitively; lists and tuples compare element-wise.
func (v *Value) Equal(o *Value) bool {
	return canonKey(v) == canonKey(o)
}
