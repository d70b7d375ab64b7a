package typeid

import (
	"reflect"
	"sync"
)

// ID identifies a distinct Go type within one Registry. The zero ID is
// reserved and means the type was never referenced in that space.
type ID uint32

// Zero is the reserved "never referenced" identifier.
const Zero ID = 0

// Registry assigns a stable, non-zero ID to each distinct type the first
// time it is referenced, monotonically starting at 1. IDs are never reused.
//
// Each Registry is an independent identifier space: two registries are free
// to disagree on the ID of the same type. Consumers that compare IDs (or
// bit vectors indexed by them) must share a Registry.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	next  ID
	cache sync.Map // reflect.Type -> ID
}

// NewRegistry creates an empty identifier space.
func NewRegistry() *Registry {
	return &Registry{}
}

var global = NewRegistry()

// Global returns the process-wide default identifier space, for hosts that
// do not need isolated spaces.
func Global() *Registry {
	return global
}

// Get returns the identifier for tp, assigning the next unused one on the
// first reference.
func (r *Registry) Get(tp reflect.Type) ID {
	if id, ok := r.cache.Load(tp); ok {
		return id.(ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.cache.Load(tp); ok {
		return id.(ID)
	}
	r.next++
	r.cache.Store(tp, r.next)
	return r.next
}

// Lookup returns the identifier already assigned to tp, or Zero if tp was
// never referenced in this space. It never assigns.
func (r *Registry) Lookup(tp reflect.Type) ID {
	if id, ok := r.cache.Load(tp); ok {
		return id.(ID)
	}
	return Zero
}

// Of returns the identifier for T within r, assigning one on first use.
func Of[T any](r *Registry) ID {
	return r.Get(reflect.TypeOf((*T)(nil)).Elem())
}

// LookupOf returns the identifier of T within r, or Zero if T was never
// referenced.
func LookupOf[T any](r *Registry) ID {
	return r.Lookup(reflect.TypeOf((*T)(nil)).Elem())
}
