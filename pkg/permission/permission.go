package permission

import (
	"fmt"
	"strings"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/s6i-dev/taskres/pkg/typeid"
)

// Width is the fixed capacity of a Permission's bit vectors. One identifier
// space may hand out at most Width-1 distinct type identifiers to a set of
// compared Permissions (identifier 0 is reserved); exceeding Width is a
// fatal precondition violation, not a recoverable error.
const Width = 128

const wordBits = 64

// bits is a fixed-width bit vector indexed by typeid.ID.
type bits [Width / wordBits]uint64

func (b *bits) set(id typeid.ID) {
	b[id/wordBits] |= 1 << (id % wordBits)
}

func (b *bits) test(id typeid.ID) bool {
	return b[id/wordBits]&(1<<(id%wordBits)) != 0
}

func (b *bits) intersects(other *bits) bool {
	for w := range b {
		if b[w]&other[w] != 0 {
			return true
		}
	}
	return false
}

// Permission is the read/write capability set one task declares over
// resource types. The read and write vectors are independent: setting write
// for a type does not set read.
//
// Permissions that will be compared with Conflict must index their bits by
// the same typeid.Registry space. A Permission is not internally
// synchronized; build it before handing it to a scheduler.
type Permission struct {
	read  bits
	write bits
}

// SetRead marks the type identified by id as readable. Idempotent.
func (p *Permission) SetRead(id typeid.ID) {
	checkCapacity(id)
	p.read.set(id)
}

// SetWrite marks the type identified by id as writable. Idempotent, and
// does not imply SetRead.
func (p *Permission) SetWrite(id typeid.ID) {
	checkCapacity(id)
	p.write.set(id)
}

// TestRead reports whether id is readable. The reserved zero identifier
// always reports false.
func (p *Permission) TestRead(id typeid.ID) bool {
	if id == typeid.Zero || id >= Width {
		return false
	}
	return p.read.test(id)
}

// TestWrite reports whether id is writable.
func (p *Permission) TestWrite(id typeid.ID) bool {
	if id == typeid.Zero || id >= Width {
		return false
	}
	return p.write.test(id)
}

func checkCapacity(id typeid.ID) {
	if id >= Width {
		log.L().Panic("permission capacity exceeded",
			zap.Uint32("type-id", uint32(id)),
			zap.Int("width", Width))
	}
}

// SetReadFor marks T as readable in p, assigning T's identifier within
// space on first use.
func SetReadFor[T any](space *typeid.Registry, p *Permission) {
	p.SetRead(typeid.Of[T](space))
}

// SetWriteFor marks T as writable in p, assigning T's identifier within
// space on first use.
func SetWriteFor[T any](space *typeid.Registry, p *Permission) {
	p.SetWrite(typeid.Of[T](space))
}

// TestReadFor reports whether p can read T. A type never referenced in
// space reports false and is not assigned an identifier by the test.
func TestReadFor[T any](space *typeid.Registry, p *Permission) bool {
	return p.TestRead(typeid.LookupOf[T](space))
}

// TestWriteFor reports whether p can write T.
func TestWriteFor[T any](space *typeid.Registry, p *Permission) bool {
	return p.TestWrite(typeid.LookupOf[T](space))
}

// Conflict reports whether two capability sets must not run concurrently:
// some type is written by one side while the other side reads or writes it.
// Read/read overlap never conflicts. Symmetric.
func Conflict(a, b *Permission) bool {
	return a.read.intersects(&b.write) ||
		a.write.intersects(&b.read) ||
		a.write.intersects(&b.write)
}

// String renders the set identifiers, for logging.
func (p *Permission) String() string {
	var sb strings.Builder
	sb.WriteString("read:[")
	writeIDs(&sb, &p.read)
	sb.WriteString("] write:[")
	writeIDs(&sb, &p.write)
	sb.WriteString("]")
	return sb.String()
}

func writeIDs(sb *strings.Builder, b *bits) {
	first := true
	for id := typeid.ID(1); id < Width; id++ {
		if !b.test(id) {
			continue
		}
		if !first {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "%d", id)
		first = false
	}
}
