package autoid

import (
	"sync"

	"github.com/google/uuid"
)

// IDAllocator hands out monotonically increasing task IDs inside one task
// graph. The graph ID occupies the high 32 bits so IDs allocated by
// different graphs never collide.
type IDAllocator struct {
	sync.Mutex
	internalID int64
	graphID    int64
}

func NewIDAllocator(graphID int64) *IDAllocator {
	return &IDAllocator{
		graphID: graphID << 32,
	}
}

func (a *IDAllocator) AllocID() int64 {
	a.Lock()
	defer a.Unlock()
	a.internalID++
	return a.internalID + a.graphID
}

// UUIDAllocator allocates globally unique task names.
type UUIDAllocator struct{}

func NewUUIDAllocator() *UUIDAllocator {
	return new(UUIDAllocator)
}

func (a *UUIDAllocator) AllocID() string {
	return uuid.New().String()
}
