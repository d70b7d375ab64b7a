package typeid

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type typeA struct{ _ int }

type typeB struct{ _ string }

type typeC struct{ _ float64 }

func TestRegistryAssignsMonotonically(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	idA := Of[typeA](r)
	idB := Of[typeB](r)
	idC := Of[typeC](r)

	require.Equal(t, ID(1), idA)
	require.Equal(t, ID(2), idB)
	require.Equal(t, ID(3), idC)

	// repeated references are stable
	require.Equal(t, idA, Of[typeA](r))
	require.Equal(t, idB, Of[typeB](r))
}

func TestRegistryLookupNeverAssigns(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.Equal(t, Zero, LookupOf[typeA](r))
	require.Equal(t, Zero, LookupOf[typeA](r))

	id := Of[typeA](r)
	require.Equal(t, id, LookupOf[typeA](r))
	require.Equal(t, Zero, LookupOf[typeB](r))
}

func TestRegistrySpacesAreIndependent(t *testing.T) {
	t.Parallel()

	r1 := NewRegistry()
	r2 := NewRegistry()

	// referenced-order differs, so the same type can carry different IDs
	// in different spaces.
	require.Equal(t, ID(1), Of[typeA](r1))
	require.Equal(t, ID(1), Of[typeB](r2))
	require.Equal(t, ID(2), Of[typeA](r2))
}

func TestRegistryConcurrentGet(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	types := []reflect.Type{
		reflect.TypeOf(typeA{}),
		reflect.TypeOf(typeB{}),
		reflect.TypeOf(typeC{}),
	}

	var eg errgroup.Group
	for i := 0; i < 32; i++ {
		eg.Go(func() error {
			for _, tp := range types {
				r.Get(tp)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	seen := make(map[ID]struct{})
	for _, tp := range types {
		id := r.Lookup(tp)
		require.NotEqual(t, Zero, id)
		require.LessOrEqual(t, id, ID(len(types)))
		seen[id] = struct{}{}
	}
	require.Len(t, seen, len(types))
}
