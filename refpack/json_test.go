package refpack

import (
	"reflect"
	"testing"
)

// ============================================================
// JSON Safety
// ============================================================

// jsonCycle pushes a table through a full generic JSON encode/decode.
func jsonCycle(t *testing.T, table Table) Table {
	t.Helper()
	data, err := EncodeJSON(table)
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	return decoded
}

func TestJSONSafety(t *testing.T) {
	tests := []struct {
		name  string
		value *Value
	}{
		{"null root", Null()},
		{"int root", Int(42)},
		{"float root", Float(3.14)},
		{"string root", Str("hello")},
		{"symbol", Sym("ok")},
		{"tuple", TupleOf(Int(1), Str("a"))},
		{"list with dups", ListOf(Str("a"), Str("a"), Int(-3))},
		{"map", MapOf(Field("k", Str("v")), SymField("status", Sym("ok")))},
		{"record", Rec("User", SymField("name", Str("Alice")))},
		{"nested empties", MapOf(Field("m", MapOf()), Field("l", ListOf()))},
		{
			"shared structure",
			func() *Value {
				m := MapOf(Field("name", Str("Alice")))
				return MapOf(Field("u1", m), Field("u2", m))
			}(),
		},
	}

	opts := DecodeOpts{Registry: roundTripRegistry()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Compact(tt.value)
			cycled := jsonCycle(t, table)

			if !reflect.DeepEqual(cycled, table) {
				t.Errorf("JSON cycle changed the table:\n got: %#v\nwant: %#v", cycled, table)
			}

			got, err := DecompactWithOpts(cycled, opts)
			if err != nil {
				t.Fatalf("Decompact after JSON cycle failed: %v", err)
			}
			if !got.Equal(tt.value) {
				t.Errorf("JSON cycle broke round trip\n got: %s\nwant: %s", canonKey(got), canonKey(tt.value))
			}
		})
	}
}

// ============================================================
// Golden Wire Output
// ============================================================

func TestJSON_Golden(t *testing.T) {
	tests := []struct {
		name     string
		value    *Value
		expected string
	}{
		{
			"primitive value",
			MapOf(Field("a", Int(1))),
			`[{"a":1}]`,
		},
		{
			"string slot",
			MapOf(Field("a", Str("hello"))),
			`[{"a":"1"},"hello"]`,
		},
		{
			"dedup",
			ListOf(Str("hello"), Str("hello"), Int(42), Int(42), Str("world"), Str("hello")),
			`[["1","1",42,42,"2","1"],"hello","world"]`,
		},
		{
			"shared map",
			func() *Value {
				m := MapOf(Field("name", Str("Alice")))
				return MapOf(Field("u1", m), Field("u2", m))
			}(),
			`[{"u1":"1","u2":"1"},{"name":"2"},"Alice"]`,
		},
		{
			"empty map root",
			MapOf(),
			`[{}]`,
		},
		{
			"empty list root",
			ListOf(),
			`[[]]`,
		},
		{
			"record",
			Rec("User", SymField("name", Str("Alice"))),
			`[{":name":"2","__struct__":"1"},"User","Alice"]`,
		},
		{
			"tuple root",
			TupleOf(Int(1), Str("a")),
			`[["__tuple__",1,"1"],"a"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeJSON(Compact(tt.value))
			if err != nil {
				t.Fatalf("EncodeJSON failed: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("wire output mismatch\n got: %s\nwant: %s", data, tt.expected)
			}
		})
	}
}

func TestDecodeJSON_NotASequence(t *testing.T) {
	for _, doc := range []string{`{"a":1}`, `"str"`, `42`, `null`} {
		if _, err := DecodeJSON([]byte(doc)); err == nil {
			t.Errorf("DecodeJSON(%s): expected error", doc)
		}
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	if _, err := DecodeJSON([]byte(`[1, 2`)); err == nil {
		t.Error("expected parse error for truncated JSON")
	}
}

func TestJSON_IntegralFloatCollapses(t *testing.T) {
	// Known limitation: JSON has one number type, so an integral float
	// marshals as an integer literal and comes back as an int. Pinned
	// here so the behavior stays visible; use non-integral floats when
	// the distinction matters across a JSON cycle.
	table := Compact(Float(2.0))
	data, err := EncodeJSON(table)
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	if string(data) != `[2]` {
		t.Fatalf("expected [2], got %s", data)
	}

	cycled, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	got, err := Decompact(cycled)
	if err != nil {
		t.Fatalf("Decompact failed: %v", err)
	}
	if !got.Equal(Int(2)) {
		t.Errorf("expected Int(2) after JSON cycle, got %s", canonKey(got))
	}
	if got.Equal(Float(2.0)) {
		t.Errorf("int and float must stay distinct kinds")
	}
}

func TestNormalizeJSON_NumberSplit(t *testing.T) {
	table, err := DecodeJSON([]byte(`[[1, 2.5, -3, 1e3]]`))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	want := Table{[]any{int64(1), 2.5, int64(-3), float64(1000)}}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("got %#v, want %#v", table, want)
	}
}
