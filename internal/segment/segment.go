package segment

// Segment is a fixed-capacity block of elements.
type Segment[T any] struct {
	items []T
}

func newSegment[T any](capacity int) *Segment[T] {
	return &Segment[T]{items: make([]T, 0, capacity)}
}

// Len returns the number of occupied slots.
func (s *Segment[T]) Len() int { return len(s.items) }

// Cap returns the fixed capacity.
func (s *Segment[T]) Cap() int { return cap(s.items) }

// Full reports whether no slot is left.
func (s *Segment[T]) Full() bool { return len(s.items) == cap(s.items) }

// Ptr returns a pointer to the element at offset, or nil if offset is not occupied.
func (s *Segment[T]) Ptr(offset int) *T {
	if offset < 0 || offset >= len(s.items) {
		return nil
	}
	return &s.items[offset]
}

// Items returns the occupied part of the segment.
// The returned slice aliases segment storage; appending to it is not allowed.
func (s *Segment[T]) Items() []T {
	return s.items[:len(s.items):len(s.items)]
}

func (s *Segment[T]) push(v T) int {
	if len(s.items) == cap(s.items) {
		// Would reallocate and move every element of the segment.
		panic("segment: push into full segment")
	}
	s.items = append(s.items, v)
	return len(s.items) - 1
}
