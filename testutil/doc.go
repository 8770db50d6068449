// Package testutil provides deterministic random inputs for tests and
// benchmarks of bucketvec.
//
// This package is intended for use in tests and benchmarks only.
//
//	rng := testutil.NewRNG(4711)
//	values := rng.Ints(1000, 1<<20)  // uniform in [0, 1<<20)
//	hot := rng.ZipfIndices(1000, n)  // skewed access pattern over [0, n)
package testutil
