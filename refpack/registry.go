package refpack

import (
	"sync"
)

// TypeFactory constructs a record from decoded fields. Returning an
// error makes Decompact fall back to the plain field map; it never
// aborts the decode.
type TypeFactory func(typeName string, fields []Entry) (*Value, error)

// Registry holds the symbols and record types Decompact is allowed to
// reconstruct. Anything absent stays an opaque string or plain map, so
// untrusted input can never mint new symbols or types.
//
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	symbols map[string]bool
	types   map[string]TypeFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		symbols: make(map[string]bool),
		types:   make(map[string]TypeFactory),
	}
}

// DefaultRegistry backs Decompact when no explicit registry is given.
var DefaultRegistry = NewRegistry()

// RegisterSymbol marks symbol names as known. The primitive sentinels
// (null, true, false) are never registrable; they are not symbols.
func (r *Registry) RegisterSymbol(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if isSentinelName(name) {
			continue
		}
		r.symbols[name] = true
	}
}

// RegisterType registers a record type with a custom factory.
func (r *Registry) RegisterType(name string, factory TypeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = factory
}

// RegisterStruct registers a record type with the identity factory and
// marks its field names as known symbols, which is what a plain record
// round-trip needs.
func (r *Registry) RegisterStruct(name string, fieldSymbols ...string) {
	r.RegisterSymbol(fieldSymbols...)
	r.RegisterType(name, func(typeName string, fields []Entry) (*Value, error) {
		return Rec(typeName, fields...), nil
	})
}

// HasSymbol reports whether a symbol name is known.
func (r *Registry) HasSymbol(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.symbols[name]
}

// LookupType returns the factory for a record type name.
func (r *Registry) LookupType(name string) (TypeFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.types[name]
	return f, ok
}

// Clear removes all registered symbols and types.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.symbols = make(map[string]bool)
	r.types = make(map[string]TypeFactory)
}
