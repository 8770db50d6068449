package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Ints returns num values uniformly drawn from [0, n).
// Locks only once per call.
func (r *RNG) Ints(num, n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, num)
	for i := range out {
		out[i] = r.rand.Intn(n)
	}
	return out
}

// Perm returns a random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Strings returns num random lowercase strings of length size.
func (r *RNG) Strings(num, size int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, num)
	buf := make([]byte, size)
	for i := range out {
		for j := range buf {
			buf[j] = byte('a' + r.rand.Intn(26))
		}
		out[i] = string(buf)
	}
	return out
}

// ZipfIndices returns num indices in [0, n) with a Zipfian skew towards 0
// (s = 1.1). Use it to model hot-prefix access patterns.
func (r *RNG) ZipfIndices(num, n int) []int {
	out := make([]int, num)
	if n <= 1 {
		return out
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	z := rand.NewZipf(r.rand, 1.1, 1, uint64(n-1))
	for i := range out {
		out[i] = int(z.Uint64())
	}
	return out
}
