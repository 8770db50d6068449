package bucketvec

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIter_Forward(t *testing.T) {
	forEachConfig(t, func(t *testing.T, values []int, opts ...Option) {
		v, err := FromSlice(values, opts...)
		require.NoError(t, err)

		it := v.Iter()
		for i, want := range values {
			require.Equal(t, len(values)-i, it.Len())
			p, ok := it.Next()
			require.True(t, ok)
			require.Equal(t, want, *p)
		}
		_, ok := it.Next()
		assert.False(t, ok)
		assert.Equal(t, 0, it.Len())
	})
}

func TestIter_Backward(t *testing.T) {
	forEachConfig(t, func(t *testing.T, values []int, opts ...Option) {
		v, err := FromSlice(values, opts...)
		require.NoError(t, err)

		it := v.Iter()
		for i := len(values) - 1; i >= 0; i-- {
			p, ok := it.NextBack()
			require.True(t, ok)
			require.Equal(t, values[i], *p)
		}
		_, ok := it.NextBack()
		assert.False(t, ok)
	})
}

func TestIter_MeetInTheMiddle(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 8, 15, 16, 17, 100} {
		v := MustNew[int](WithStartCapacity(1), WithGrowthRate(2))
		for i := 0; i < n; i++ {
			v.Push(i)
		}

		it := v.Iter()
		var head, tail []int
		for front := true; ; front = !front {
			var (
				p  *int
				ok bool
			)
			if front {
				p, ok = it.Next()
			} else {
				p, ok = it.NextBack()
			}
			if !ok {
				break
			}
			if front {
				head = append(head, *p)
			} else {
				tail = append(tail, *p)
			}
		}

		slices.Reverse(tail)
		assert.Equal(t, v.collectValues(), append(head, tail...), "n=%d", n)

		_, ok := it.Next()
		assert.False(t, ok)
		_, ok = it.NextBack()
		assert.False(t, ok)
	}
}

func (v *Vec[T]) collectValues() []T {
	out := make([]T, 0, v.Len())
	for x := range v.Values() {
		out = append(out, x)
	}
	return out
}

func TestIter_BackwardMirrorsForward(t *testing.T) {
	for _, tc := range []struct {
		name  string
		n     int
		start int
		rate  float64
	}{
		{"empty", 0, 4, 2},
		{"single", 1, 4, 2},
		{"single_full_segment", 1, 1, 2},
		{"partial_last_uniform", 10, 4, 1},
		{"partial_last_doubling", 5, 1, 2},
		{"partial_last_geometric", 20, 3, 1.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := MustNew[int](WithStartCapacity(tc.start), WithGrowthRate(tc.rate))
			for i := range tc.n {
				v.Push(i * 3)
			}

			forward := slices.AppendSeq(make([]int, 0, tc.n), v.Values())
			slices.Reverse(forward)

			backward := make([]int, 0, tc.n)
			for _, p := range v.Backward() {
				backward = append(backward, *p)
			}
			assert.Equal(t, forward, backward)

			it := v.Iter()
			viaNextBack := make([]int, 0, tc.n)
			for p, ok := it.NextBack(); ok; p, ok = it.NextBack() {
				viaNextBack = append(viaNextBack, *p)
			}
			assert.Equal(t, forward, viaNextBack)
		})
	}
}

func TestIter_PartialSegment(t *testing.T) {
	// Segments [4, 4, 4] with 10 elements; the last one holds two.
	v := MustNew[int](WithStartCapacity(4), WithGrowthRate(1))
	for i := 0; i < 10; i++ {
		v.Push(i)
	}

	it := v.Iter()
	p, ok := it.NextBack()
	require.True(t, ok)
	assert.Equal(t, 9, *p)

	var got []int
	for i, p := range v.Backward() {
		require.Equal(t, i, *p)
		got = append(got, *p)
	}
	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, got)
}

func TestIter_IgnoresLaterPushes(t *testing.T) {
	v, err := FromSlice([]int{1, 2, 3})
	require.NoError(t, err)

	it := v.Iter()
	v.Append(4, 5, 6)

	n := 0
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	assert.Equal(t, 3, n)
}

func TestAll_MutatesInPlace(t *testing.T) {
	forEachConfig(t, func(t *testing.T, values []int, opts ...Option) {
		v, err := FromSlice(values, opts...)
		require.NoError(t, err)

		for i, p := range v.All() {
			require.Same(t, v.AtMut(i), p)
			*p *= 2
		}
		for i, want := range values {
			require.Equal(t, 2*want, v.At(i))
		}
	})
}

func TestAll_Break(t *testing.T) {
	v, err := FromSlice([]int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	var got []int
	for _, p := range v.All() {
		if *p == 3 {
			break
		}
		got = append(got, *p)
	}
	assert.Equal(t, []int{1, 2}, got)

	got = got[:0]
	for i, p := range v.Backward() {
		if i < 3 {
			break
		}
		got = append(got, *p)
	}
	assert.Equal(t, []int{5, 4}, got)
}
