package autoid

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestIDAllocator(t *testing.T) {
	t.Parallel()

	a := NewIDAllocator(7)
	first := a.AllocID()
	second := a.AllocID()
	require.Equal(t, int64(7<<32)+1, first)
	require.Equal(t, first+1, second)
}

func TestIDAllocatorConcurrent(t *testing.T) {
	t.Parallel()

	a := NewIDAllocator(0)
	const workers = 16
	const perWorker = 100

	ids := make([][]int64, workers)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			for i := 0; i < perWorker; i++ {
				ids[w] = append(ids[w], a.AllocID())
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	seen := make(map[int64]struct{})
	for _, batch := range ids {
		for _, id := range batch {
			_, dup := seen[id]
			require.False(t, dup)
			seen[id] = struct{}{}
		}
	}
	require.Len(t, seen, workers*perWorker)
}

func TestUUIDAllocator(t *testing.T) {
	t.Parallel()

	a := NewUUIDAllocator()
	require.NotEqual(t, a.AllocID(), a.AllocID())
}
