package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInts(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Ints(100, 10)

	assert.Len(t, v, 100)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, 0)
		assert.Less(t, x, 10)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)

	a := rng.Ints(16, 1000)
	rng.Reset()
	b := rng.Ints(16, 1000)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestPerm(t *testing.T) {
	rng := NewRNG(1)

	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, rng.Perm(5))
}

func TestStrings(t *testing.T) {
	rng := NewRNG(1)

	s := rng.Strings(3, 8)

	assert.Len(t, s, 3)
	for _, x := range s {
		assert.Len(t, x, 8)
	}
}

func TestZipfIndices(t *testing.T) {
	rng := NewRNG(4711)

	idx := rng.ZipfIndices(10_000, 1000)

	var low int
	for _, i := range idx {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 1000)
		if i < 100 {
			low++
		}
	}
	// Heavy skew towards the front.
	assert.Greater(t, low, 5_000)

	assert.Equal(t, []int{0, 0}, rng.ZipfIndices(2, 1))
}
