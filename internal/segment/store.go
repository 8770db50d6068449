package segment

import (
	"fmt"

	"github.com/hupe1980/bucketvec/growth"
	"github.com/hupe1980/bucketvec/internal/conv"
)

// GrowFunc is called after a new segment has been allocated.
type GrowFunc func(ordinal, capacity int)

// Store is an append-only sequence of segments.
type Store[T any] struct {
	policy growth.Policy
	segs   []*Segment[T]
	starts []int // starts[i] is the cumulative capacity of segments [0, i)
	length int
	total  int // sum of all segment capacities
	onGrow GrowFunc
}

// Option configures a Store.
type Option func(*options)

type options struct {
	onGrow GrowFunc
}

// WithGrowFunc registers a callback for segment allocations.
func WithGrowFunc(fn GrowFunc) Option {
	return func(o *options) {
		o.onGrow = fn
	}
}

// NewStore creates an empty store. No memory is allocated until the first Append.
func NewStore[T any](policy growth.Policy, opts ...Option) *Store[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		policy: policy,
		onGrow: o.onGrow,
	}
}

// Policy returns the growth policy.
func (s *Store[T]) Policy() growth.Policy { return s.policy }

// Append stores v and returns its segment ordinal and offset.
// Existing segments are never reallocated.
func (s *Store[T]) Append(v T) (seg, off int) {
	if n := len(s.segs); n > 0 && !s.segs[n-1].Full() {
		off = s.segs[n-1].push(v)
		s.length++
		return n - 1, off
	}

	seg = s.grow()
	off = s.segs[seg].push(v)
	s.length++
	return seg, off
}

func (s *Store[T]) grow() int {
	ordinal := len(s.segs)
	capacity := s.policy.CapacityOf(ordinal)
	if capacity < 1 {
		panic(fmt.Sprintf("segment: policy returned capacity %d for segment %d", capacity, ordinal))
	}
	if ordinal > 0 {
		if prev := s.segs[ordinal-1].Cap(); capacity < prev {
			panic(fmt.Sprintf("segment: policy capacity decreased from %d to %d at segment %d", prev, capacity, ordinal))
		}
	}

	start := s.total
	s.total = conv.MustAdd(s.total, capacity)

	s.segs = append(s.segs, newSegment[T](capacity))
	s.starts = append(s.starts, start)

	if s.onGrow != nil {
		s.onGrow(ordinal, capacity)
	}
	return ordinal
}

// Len returns the number of stored elements.
func (s *Store[T]) Len() int { return s.length }

// Cap returns the sum of all segment capacities.
func (s *Store[T]) Cap() int { return s.total }

// SegmentCount returns the number of allocated segments.
func (s *Store[T]) SegmentCount() int { return len(s.segs) }

// Segment returns segment i. It panics if i is out of range.
func (s *Store[T]) Segment(i int) *Segment[T] { return s.segs[i] }

// Start returns the global index of the first slot of segment i.
// Start(SegmentCount()) equals Cap().
func (s *Store[T]) Start(i int) int {
	if i == len(s.segs) {
		return s.total
	}
	return s.starts[i]
}

// Ptr returns a pointer to the element at (seg, off), or nil if it is not occupied.
func (s *Store[T]) Ptr(seg, off int) *T {
	if seg < 0 || seg >= len(s.segs) {
		return nil
	}
	return s.segs[seg].Ptr(off)
}

// LocateLinear maps a global index to (segment, offset) by scanning the
// cumulative starts. It is O(segments) and exists to verify resolvers.
// k == Len() maps to the slot the next Append would use.
func (s *Store[T]) LocateLinear(k int) (seg, off int, ok bool) {
	if k < 0 || k > s.length {
		return 0, 0, false
	}
	for i, seg := range s.segs {
		if k < s.starts[i]+seg.Cap() {
			return i, k - s.starts[i], true
		}
	}
	// Every segment is full and k == Len(): next push opens a new segment.
	return len(s.segs), 0, true
}
