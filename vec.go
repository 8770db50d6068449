package bucketvec

import (
	"context"
	"iter"

	"github.com/hupe1980/bucketvec/growth"
	"github.com/hupe1980/bucketvec/internal/resolver"
	"github.com/hupe1980/bucketvec/internal/segment"
	"github.com/hupe1980/bucketvec/metrics"
)

// Vec is an append-only sequence that never moves its elements.
//
// Elements live in fixed-capacity segments. When the last segment is full a
// new, larger one is allocated (see package growth); existing segments are
// never reallocated, so pointers returned by PushGet, GetMut, AtMut, Deref
// and the iterators stay valid for as long as the Vec is reachable.
//
// The zero value is an empty Vec with the default configuration.
// A Vec is not safe for concurrent use.
type Vec[T any] struct {
	store    *segment.Store[T]
	resolver resolver.Resolver
	logger   *Logger
	metrics  metrics.Collector
}

// New creates an empty Vec. No segment is allocated until the first push.
// It returns an error wrapping ErrInvalidConfig for a start capacity below 1
// or a growth rate below 1.0.
func New[T any](opts ...Option) (*Vec[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p, err := o.resolvePolicy()
	if err != nil {
		return nil, err
	}

	v := &Vec[T]{}
	v.init(p, o.logger, o.metrics)
	o.logger.LogCreated(context.Background(), p.StartCapacity(), p.GrowthRate())
	return v, nil
}

// MustNew is like New but panics on a configuration error.
func MustNew[T any](opts ...Option) *Vec[T] {
	v, err := New[T](opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// FromSlice creates a Vec holding a copy of values, in order.
func FromSlice[T any](values []T, opts ...Option) (*Vec[T], error) {
	v, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	v.Append(values...)
	return v, nil
}

// Collect creates a Vec from the values of seq, in order.
func Collect[T any](seq iter.Seq[T], opts ...Option) (*Vec[T], error) {
	v, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	v.Extend(seq)
	return v, nil
}

func (v *Vec[T]) init(p growth.Policy, l *Logger, m metrics.Collector) {
	v.logger = l
	v.metrics = m
	v.resolver = resolver.New(p)
	v.store = segment.NewStore[T](p, segment.WithGrowFunc(v.onGrow))
}

func (v *Vec[T]) lazyInit() {
	if v.store == nil {
		v.init(growth.Default(), NoopLogger(), metrics.Noop{})
	}
}

func (v *Vec[T]) onGrow(ordinal, capacity int) {
	v.resolver.Reserve(ordinal + 1)
	v.logger.LogSegmentAllocated(context.Background(), ordinal, capacity, v.store.Cap())
	v.metrics.RecordSegmentAlloc(ordinal, capacity)
}

// Policy returns the growth policy of the Vec.
func (v *Vec[T]) Policy() growth.Policy {
	v.lazyInit()
	return v.store.Policy()
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int {
	if v.store == nil {
		return 0
	}
	return v.store.Len()
}

// Cap returns the sum of the capacities of all allocated segments.
func (v *Vec[T]) Cap() int {
	if v.store == nil {
		return 0
	}
	return v.store.Cap()
}

// IsEmpty reports whether the Vec holds no elements.
func (v *Vec[T]) IsEmpty() bool { return v.Len() == 0 }

// SegmentCount returns the number of allocated segments.
func (v *Vec[T]) SegmentCount() int {
	if v.store == nil {
		return 0
	}
	return v.store.SegmentCount()
}

// Push appends value and returns its location.
// No existing element is moved.
func (v *Vec[T]) Push(value T) Location {
	v.lazyInit()
	seg, off := v.store.Append(value)
	return Location{Segment: seg, Offset: off}
}

// PushGet appends value and returns access to the stored copy.
func (v *Vec[T]) PushGet(value T) Access[T] {
	index := v.Len()
	loc := v.Push(value)
	return Access[T]{index: index, ptr: v.store.Ptr(loc.Segment, loc.Offset)}
}

// Append pushes every value in order.
func (v *Vec[T]) Append(values ...T) {
	for _, value := range values {
		v.Push(value)
	}
}

// Extend pushes every value of seq in order.
func (v *Vec[T]) Extend(seq iter.Seq[T]) {
	for value := range seq {
		v.Push(value)
	}
}

// Locate returns the location of the element at index. Index Len() is
// accepted and yields the location the next Push will use.
func (v *Vec[T]) Locate(index int) (Location, bool) {
	if index < 0 || index > v.Len() {
		return Location{}, false
	}
	v.lazyInit()
	seg, off := v.resolver.Locate(index)
	return Location{Segment: seg, Offset: off}, true
}

// IndexOf returns the global index of an occupied location.
func (v *Vec[T]) IndexOf(loc Location) (int, bool) {
	if v.Deref(loc) == nil {
		return 0, false
	}
	return v.resolver.Start(loc.Segment) + loc.Offset, true
}

// Deref returns a pointer to the element at loc, or nil if loc is not occupied.
func (v *Vec[T]) Deref(loc Location) *T {
	if v.store == nil {
		return nil
	}
	return v.store.Ptr(loc.Segment, loc.Offset)
}

func (v *Vec[T]) ptr(index int) *T {
	if index < 0 || index >= v.Len() {
		return nil
	}
	seg, off := v.resolver.Locate(index)
	return v.store.Ptr(seg, off)
}

// Get returns a copy of the element at index. ok is false if index is out of range.
func (v *Vec[T]) Get(index int) (value T, ok bool) {
	if p := v.ptr(index); p != nil {
		return *p, true
	}
	return value, false
}

// GetMut returns a pointer to the element at index, or nil and false if index
// is out of range.
func (v *Vec[T]) GetMut(index int) (*T, bool) {
	p := v.ptr(index)
	return p, p != nil
}

// At returns the element at index. It panics with *IndexOutOfRangeError if
// index is out of range.
func (v *Vec[T]) At(index int) T {
	return *v.AtMut(index)
}

// AtMut returns a pointer to the element at index. It panics with
// *IndexOutOfRangeError if index is out of range.
func (v *Vec[T]) AtMut(index int) *T {
	p := v.ptr(index)
	if p == nil {
		panic(&IndexOutOfRangeError{Index: index, Len: v.Len()})
	}
	return p
}

// First returns the first element.
func (v *Vec[T]) First() (T, bool) { return v.Get(0) }

// FirstMut returns a pointer to the first element.
func (v *Vec[T]) FirstMut() (*T, bool) { return v.GetMut(0) }

// Last returns the last element.
func (v *Vec[T]) Last() (T, bool) { return v.Get(v.Len() - 1) }

// LastMut returns a pointer to the last element.
func (v *Vec[T]) LastMut() (*T, bool) { return v.GetMut(v.Len() - 1) }

// Clone returns a new Vec with the same growth policy, logger, metrics and
// logical contents. Elements are copied by assignment.
func (v *Vec[T]) Clone() *Vec[T] {
	c := &Vec[T]{}
	if v.store == nil {
		return c
	}
	c.init(v.store.Policy(), v.logger, v.metrics)
	c.Extend(v.Values())
	return c
}

// Stats describes the current layout of a Vec.
type Stats struct {
	Len            int
	Cap            int
	Segments       int
	LastSegmentLen int
	LastSegmentCap int
	Resolver       ResolverStats
}

// ResolverStats counts index lookups that needed correction. Only Vecs with
// a geometric growth rate other than 1.0 or 2.0, or a custom policy, report
// non-zero values.
type ResolverStats struct {
	Lookups        uint64
	Corrections    uint64
	MaxCorrections uint64
	Fallbacks      uint64
}

// Stats returns layout and lookup statistics.
func (v *Vec[T]) Stats() Stats {
	if v.store == nil {
		return Stats{}
	}
	st := Stats{
		Len:      v.store.Len(),
		Cap:      v.store.Cap(),
		Segments: v.store.SegmentCount(),
	}
	if n := st.Segments; n > 0 {
		last := v.store.Segment(n - 1)
		st.LastSegmentLen = last.Len()
		st.LastSegmentCap = last.Cap()
	}
	rs := v.resolver.Stats()
	st.Resolver = ResolverStats{
		Lookups:        rs.Lookups,
		Corrections:    rs.Corrections,
		MaxCorrections: rs.MaxCorrections,
		Fallbacks:      rs.Fallbacks,
	}
	return st
}
