package task

import (
	"github.com/benbjohnson/clock"

	"github.com/s6i-dev/taskres/pkg/autoid"
	"github.com/s6i-dev/taskres/pkg/typeid"
)

// Binding is the construction context shared by the task functions of one
// task graph: the capability index space, the resource pool identifier
// space, the ID allocators and the clock. The host builds one Binding per
// graph during its (serialized) build phase and hands it to every New call.
type Binding struct {
	permSpace *typeid.Registry
	poolSpace *typeid.Registry
	ids       *autoid.IDAllocator
	names     *autoid.UUIDAllocator
	clock     clock.Clock
}

// NewBinding creates a Binding over the given identifier spaces. The two
// spaces are independent: permissions index capability bits, pools index
// lookup slots, and they need not agree on the ID of a type.
func NewBinding(graphID int64, permSpace, poolSpace *typeid.Registry) *Binding {
	return &Binding{
		permSpace: permSpace,
		poolSpace: poolSpace,
		ids:       autoid.NewIDAllocator(graphID),
		names:     autoid.NewUUIDAllocator(),
		clock:     clock.New(),
	}
}

// WithClock replaces the wall clock, for tests.
func (b *Binding) WithClock(c clock.Clock) *Binding {
	b.clock = c
	return b
}

// PermissionSpace returns the capability index space tasks built with this
// Binding derive their permissions in. Conflict checks across tasks are
// only meaningful within one space.
func (b *Binding) PermissionSpace() *typeid.Registry {
	return b.permSpace
}

// PoolSpace returns the identifier space the tasks resolve resources in.
// Pools passed to Exec must be built over this space.
func (b *Binding) PoolSpace() *typeid.Registry {
	return b.poolSpace
}
