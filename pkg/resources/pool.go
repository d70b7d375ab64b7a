// Package resources provides a heterogeneous, type-indexed container of
// live resource pointers, with optional ownership and deterministic
// reverse-order release.
package resources

import (
	"reflect"

	"github.com/s6i-dev/taskres/pkg/containers"
	"github.com/s6i-dev/taskres/pkg/typeid"
)

// Disposer is implemented by owned values that need an explicit release
// hook when their pool tears down.
type Disposer interface {
	Dispose()
}

// holder keeps one owned value reachable and carries its release hook.
type holder struct {
	ptr any // *T of the owned value
}

func (h holder) release() {
	if d, ok := h.ptr.(Disposer); ok {
		d.Dispose()
	}
}

// Pool maps each resource type to at most one live pointer. A Pool either
// owns a value (Put/Emplace: released by Release, in strict reverse
// insertion order) or merely references it (PutPtr: the caller keeps the
// pointee alive for the pool's lifetime).
//
// A Pool is not internally synchronized: concurrent readers are fine only
// while nobody mutates it. Do not copy a Pool; transfer contents with
// MoveFrom.
type Pool struct {
	space *typeid.Registry
	slots []any // typeid.ID -> *T, nil when absent
	owned *containers.SliceStack[holder]
}

// NewPool creates an empty pool over the given identifier space. Pools
// whose contents feed the same tasks must share a space.
func NewPool(space *typeid.Registry) *Pool {
	return &Pool{
		space: space,
		owned: containers.NewSliceStack[holder](),
	}
}

// Space returns the pool's identifier space.
func (p *Pool) Space() *typeid.Registry {
	return p.space
}

// Get returns the pointer registered for T, or nil if T was never inserted
// into p. Absence is a normal, checkable state here; whether it is fatal is
// the caller's contract.
func Get[T any](p *Pool) *T {
	id := typeid.LookupOf[T](p.space)
	if id == typeid.Zero || int(id) >= len(p.slots) {
		return nil
	}
	ptr, _ := p.slots[id].(*T)
	return ptr
}

// PutPtr registers a non-owned pointer for T, overwriting any previous
// mapping. The pool never releases ptr.
//
// If an owned value of T is already present, only the lookup slot is
// repointed: the owned value is still released at teardown, in its original
// reverse-order position.
func PutPtr[T any](p *Pool, ptr *T) *T {
	p.setSlot(typeid.Of[T](p.space), ptr)
	return ptr
}

// Put moves value into a holder owned by the pool, publishes its address
// for lookup, and returns that address.
func Put[T any](p *Pool, value T) *T {
	ptr := &value
	p.owned.Push(holder{ptr: ptr})
	return PutPtr(p, ptr)
}

// Emplace constructs the owned value in place via construct and stores it
// like Put.
func Emplace[T any](p *Pool, construct func() T) *T {
	return Put(p, construct())
}

// GetByType returns the registered pointer for the resource type tp as an
// untyped *tp, or nil if absent. Runtime-typed counterpart of Get, for
// reflective callers.
func (p *Pool) GetByType(tp reflect.Type) any {
	id := p.space.Lookup(tp)
	if id == typeid.Zero || int(id) >= len(p.slots) {
		return nil
	}
	return p.slots[id]
}

// Len returns the number of live lookup slots.
func (p *Pool) Len() int {
	n := 0
	for _, slot := range p.slots {
		if slot != nil {
			n++
		}
	}
	return n
}

// Release releases every owned value in strict reverse insertion order,
// regardless of type, then clears all lookup slots. Non-owned pointers are
// never released. Idempotent.
func (p *Pool) Release() {
	for {
		h, ok := p.owned.Pop()
		if !ok {
			break
		}
		h.release()
	}
	p.slots = nil
}

// MoveFrom transfers src's lookup slots and owned holders into p verbatim;
// pointers into owned values stay valid because ownership moves, not
// storage. Pre-existing owned values of p are released first, in their own
// reverse order. src is left empty and releasing it afterwards is a no-op.
func (p *Pool) MoveFrom(src *Pool) {
	if p == src {
		return
	}
	p.Release()
	p.space = src.space
	p.slots = src.slots
	p.owned = src.owned
	src.slots = nil
	src.owned = containers.NewSliceStack[holder]()
}

func (p *Pool) setSlot(id typeid.ID, ptr any) {
	if int(id) >= len(p.slots) {
		grown := make([]any, id+1)
		copy(grown, p.slots)
		p.slots = grown
	}
	p.slots[id] = ptr
}
