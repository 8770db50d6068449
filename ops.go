package bucketvec

import (
	"cmp"
	"hash/maphash"
)

// The functions below compare logical contents only. Two Vecs with different
// growth policies but the same elements in the same order are equal.

// Equal reports whether a and b hold equal elements in the same order.
func Equal[T comparable](a, b *Vec[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is like Equal but uses eq to compare elements.
func EqualFunc[T, U any](a *Vec[T], b *Vec[U], eq func(T, U) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	ia, ib := a.Iter(), b.Iter()
	for {
		x, ok := ia.Next()
		if !ok {
			return true
		}
		y, _ := ib.Next()
		if !eq(*x, *y) {
			return false
		}
	}
}

// Compare compares a and b lexicographically, like slices.Compare.
func Compare[T cmp.Ordered](a, b *Vec[T]) int {
	return CompareFunc(a, b, cmp.Compare[T])
}

// CompareFunc is like Compare but uses cmpFn to compare elements.
func CompareFunc[T, U any](a *Vec[T], b *Vec[U], cmpFn func(T, U) int) int {
	ia, ib := a.Iter(), b.Iter()
	for {
		x, okA := ia.Next()
		y, okB := ib.Next()
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return -1
		case !okB:
			return +1
		}
		if c := cmpFn(*x, *y); c != 0 {
			return c
		}
	}
}

// Hash returns a hash of the length and elements of v. Equal Vecs hash
// equally for the same seed.
func Hash[T comparable](seed maphash.Seed, v *Vec[T]) uint64 {
	return HashFunc(seed, v, maphash.WriteComparable[T])
}

// HashFunc is like Hash but feeds each element to h with write.
func HashFunc[T any](seed maphash.Seed, v *Vec[T], write func(h *maphash.Hash, value T)) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	maphash.WriteComparable(&h, v.Len())
	for value := range v.Values() {
		write(&h, value)
	}
	return h.Sum64()
}
