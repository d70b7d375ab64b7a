package permission

import (
	"reflect"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/s6i-dev/taskres/pkg/typeid"
)

// Access classifies how one task argument touches its resource type. The
// classification is structural: an argument that could write is a writer,
// whether or not the function body ever does.
type Access int

const (
	// ReadOnly grants visibility of the resource without mutation.
	ReadOnly Access = iota + 1
	// ReadWrite grants mutation. A mutable handle also implies visibility,
	// so both bits are set.
	ReadWrite
)

// Builder accumulates per-argument access classifications and produces the
// resulting Permission. The zero-suitable entry point for hosts that
// register task resources explicitly instead of deriving them from a
// function signature.
type Builder struct {
	space *typeid.Registry
	perm  Permission
}

// NewBuilder creates a Builder over the given capability index space.
func NewBuilder(space *typeid.Registry) *Builder {
	return &Builder{space: space}
}

// Declare adds one resource type with the given access, assigning the
// type's identifier within the builder's space on first use.
func (b *Builder) Declare(tp reflect.Type, access Access) *Builder {
	id := b.space.Get(tp)
	switch access {
	case ReadOnly:
		b.perm.SetRead(id)
	case ReadWrite:
		b.perm.SetRead(id)
		b.perm.SetWrite(id)
	default:
		log.L().Panic("unknown access classification",
			zap.Int("access", int(access)),
			zap.String("type", tp.String()))
	}
	return b
}

// DeclareFor is the generic form of Declare.
func DeclareFor[T any](b *Builder, access Access) *Builder {
	return b.Declare(reflect.TypeOf((*T)(nil)).Elem(), access)
}

// Build returns the accumulated Permission. The builder can keep declaring
// afterwards; Build returns a snapshot by value.
func (b *Builder) Build() Permission {
	return b.perm
}
