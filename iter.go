package bucketvec

import (
	"iter"

	"github.com/hupe1980/bucketvec/internal/segment"
)

// Iter is a double-ended cursor over the elements of a Vec in push order.
//
// Next and NextBack may be interleaved; the two ends meet in the middle and
// no element is yielded twice. An Iter covers the elements present when it
// was created; elements pushed afterwards are not yielded.
type Iter[T any] struct {
	store *segment.Store[T]

	// Front cursor: next element to yield from the front.
	frontSeg, frontOff int
	// Back cursor: one past the next element to yield from the back.
	backSeg, backOff int

	remaining int
}

// Iter returns a fresh iterator positioned before the first element.
func (v *Vec[T]) Iter() *Iter[T] {
	it := &Iter[T]{store: v.store, remaining: v.Len()}
	if it.remaining > 0 {
		it.backSeg = v.store.SegmentCount() - 1
		it.backOff = v.store.Segment(it.backSeg).Len()
	}
	return it
}

// Len returns the number of elements not yet yielded from either end.
func (it *Iter[T]) Len() int { return it.remaining }

// Next returns a pointer to the next element from the front.
func (it *Iter[T]) Next() (*T, bool) {
	if it.remaining == 0 {
		return nil, false
	}
	seg := it.store.Segment(it.frontSeg)
	p := seg.Ptr(it.frontOff)
	it.frontOff++
	if it.frontOff == seg.Cap() {
		it.frontSeg++
		it.frontOff = 0
	}
	it.remaining--
	return p, true
}

// NextBack returns a pointer to the next element from the back.
func (it *Iter[T]) NextBack() (*T, bool) {
	if it.remaining == 0 {
		return nil, false
	}
	if it.backOff == 0 {
		it.backSeg--
		it.backOff = it.store.Segment(it.backSeg).Cap()
	}
	it.backOff--
	it.remaining--
	return it.store.Segment(it.backSeg).Ptr(it.backOff), true
}

// All returns an iterator over index/pointer pairs in push order.
// Writing through the pointer updates the element in place.
func (v *Vec[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		it := v.Iter()
		for i := 0; ; i++ {
			p, ok := it.Next()
			if !ok || !yield(i, p) {
				return
			}
		}
	}
}

// Values returns an iterator over copies of the elements in push order.
func (v *Vec[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := v.Iter()
		for {
			p, ok := it.Next()
			if !ok || !yield(*p) {
				return
			}
		}
	}
}

// Backward returns an iterator over index/pointer pairs from the last
// element to the first.
func (v *Vec[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		it := v.Iter()
		for i := it.Len() - 1; ; i-- {
			p, ok := it.NextBack()
			if !ok || !yield(i, p) {
				return
			}
		}
	}
}
