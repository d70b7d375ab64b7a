package containers

// Stack abstracts a generics LIFO stack, which is NOT thread-safe
type Stack[T any] interface {
	Push(elem T)
	Pop() (T, bool)
	Peek() (T, bool)
	Size() int
}

// SliceStack is a slice-backed implementation of Stack.
type SliceStack[T any] struct {
	elems []T
}

// NewSliceStack creates an empty SliceStack.
func NewSliceStack[T any]() *SliceStack[T] {
	return &SliceStack[T]{}
}

func (s *SliceStack[T]) Push(elem T) {
	s.elems = append(s.elems, elem)
}

func (s *SliceStack[T]) Pop() (T, bool) {
	var zero T
	if len(s.elems) == 0 {
		return zero, false
	}
	elem := s.elems[len(s.elems)-1]
	// clear the vacated slot so the stack does not pin the element
	s.elems[len(s.elems)-1] = zero
	s.elems = s.elems[:len(s.elems)-1]
	return elem, true
}

func (s *SliceStack[T]) Peek() (T, bool) {
	var zero T
	if len(s.elems) == 0 {
		return zero, false
	}
	return s.elems[len(s.elems)-1], true
}

func (s *SliceStack[T]) Size() int {
	return len(s.elems)
}
