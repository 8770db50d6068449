package bucketvec

import "fmt"

// Location addresses a stored element by segment ordinal and offset.
// A Location stays valid for the lifetime of the Vec that returned it.
type Location struct {
	Segment int
	Offset  int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Segment, l.Offset)
}

// Access gives access to a freshly pushed element.
type Access[T any] struct {
	index int
	ptr   *T
}

// Index returns the global index of the element.
func (a Access[T]) Index() int { return a.index }

// Ptr returns a pointer to the stored element. It stays valid across
// further pushes.
func (a Access[T]) Ptr() *T { return a.ptr }

// Value returns a copy of the stored element.
func (a Access[T]) Value() T { return *a.ptr }
