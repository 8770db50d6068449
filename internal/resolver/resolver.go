package resolver

import (
	"math"
	"math/bits"
	"sort"

	"github.com/hupe1980/bucketvec/growth"
	"github.com/hupe1980/bucketvec/internal/conv"
)

// maxCorrections bounds the linear correction steps of the geometric
// estimate before the binary search fallback.
const maxCorrections = 2

// Resolver maps global indices to segment locations.
type Resolver interface {
	// Locate returns the segment and offset of global index k (k >= 0).
	// An index on a segment boundary resolves to offset 0 of the later segment.
	Locate(k int) (seg, off int)
	// Start returns the global index of the first slot of segment seg.
	Start(seg int) int
	// Reserve prepares lookups for the first n segments.
	Reserve(n int)
	// Stats returns lookup counters.
	Stats() Stats
}

// Stats counts the work done by a geometric resolver.
// Closed-form resolvers always report zero.
type Stats struct {
	Lookups        uint64
	Corrections    uint64 // total correction steps
	MaxCorrections uint64 // most correction steps for a single lookup
	Fallbacks      uint64 // lookups resolved by binary search
}

// New returns the resolver matching the policy.
func New(p growth.Policy) Resolver {
	switch p := p.(type) {
	case *growth.Uniform:
		return &uniform{start: p.StartCapacity()}
	case *growth.Doubling:
		return &doubling{start: p.StartCapacity()}
	case *growth.Geometric:
		return newGeometric(p)
	default:
		return &table{prefix: newPrefix(p)}
	}
}

type uniform struct {
	start int
}

func (r *uniform) Locate(k int) (int, int) { return k / r.start, k % r.start }
func (r *uniform) Start(seg int) int       { return conv.MustMul(r.start, seg) }
func (r *uniform) Reserve(int)             {}
func (r *uniform) Stats() Stats            { return Stats{} }

type doubling struct {
	start int
}

// Segment n covers [start*(2^n - 1), start*(2^(n+1) - 1)), so with
// q = k/start + 1 the segment is the index of q's highest set bit.
func (r *doubling) Locate(k int) (int, int) {
	q := uint(k/r.start) + 1
	seg := bits.Len(q) - 1
	return seg, k - r.Start(seg)
}

func (r *doubling) Start(seg int) int {
	if seg == 0 {
		return 0
	}
	return conv.MustMul(r.start, conv.MustShl(1, seg)-1)
}

func (r *doubling) Reserve(int)  {}
func (r *doubling) Stats() Stats { return Stats{} }

// prefix is a lazily extended table of cumulative capacities:
// sums[i] is the total capacity of segments [0, i).
type prefix struct {
	policy growth.Policy
	sums   []int
}

func newPrefix(p growth.Policy) *prefix {
	return &prefix{policy: p, sums: []int{0}}
}

// cover extends the table until its last entry exceeds k.
func (t *prefix) cover(k int) {
	for t.sums[len(t.sums)-1] <= k {
		t.push()
	}
}

// reserve extends the table to at least n+1 entries.
func (t *prefix) reserve(n int) {
	for len(t.sums) <= n {
		t.push()
	}
}

func (t *prefix) push() {
	n := len(t.sums) - 1
	t.sums = append(t.sums, conv.MustAdd(t.sums[n], t.policy.CapacityOf(n)))
}

func (t *prefix) start(seg int) int {
	t.reserve(seg)
	return t.sums[seg]
}

// search returns the segment holding k by binary search. The table must cover k.
func (t *prefix) search(k int) int {
	// First entry strictly greater than k, minus one.
	return sort.Search(len(t.sums), func(i int) bool { return t.sums[i] > k }) - 1
}

type table struct {
	prefix *prefix
	stats  Stats
}

func (r *table) Locate(k int) (int, int) {
	r.prefix.cover(k)
	r.stats.Lookups++
	seg := r.prefix.search(k)
	return seg, k - r.prefix.sums[seg]
}

func (r *table) Start(seg int) int { return r.prefix.start(seg) }
func (r *table) Reserve(n int)     { r.prefix.reserve(n) }
func (r *table) Stats() Stats      { return r.stats }

type geometric struct {
	prefix *prefix
	start  float64
	rate   float64
	lnRate float64
	stats  Stats
}

func newGeometric(p *growth.Geometric) *geometric {
	return &geometric{
		prefix: newPrefix(p),
		start:  float64(p.StartCapacity()),
		rate:   p.GrowthRate(),
		lnRate: math.Log(p.GrowthRate()),
	}
}

// estimate inverts S(n) = start * (rate^n - 1) / (rate - 1).
func (r *geometric) estimate(k int) int {
	x := 1 + float64(k)*(r.rate-1)/r.start
	n := math.Floor(math.Log(x) / r.lnRate)
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

func (r *geometric) Locate(k int) (int, int) {
	r.prefix.cover(k)
	sums := r.prefix.sums
	last := len(sums) - 2 // highest segment with a known end

	n := min(r.estimate(k), last)
	r.stats.Lookups++

	var steps uint64
	for {
		switch {
		case sums[n] > k:
			n--
		case sums[n+1] <= k:
			n++
		default:
			r.record(steps)
			return n, k - sums[n]
		}
		steps++
		if steps > maxCorrections {
			r.stats.Fallbacks++
			r.record(steps)
			n = r.prefix.search(k)
			return n, k - sums[n]
		}
	}
}

func (r *geometric) record(steps uint64) {
	r.stats.Corrections += steps
	if steps > r.stats.MaxCorrections {
		r.stats.MaxCorrections = steps
	}
}

func (r *geometric) Start(seg int) int { return r.prefix.start(seg) }
func (r *geometric) Reserve(n int)     { r.prefix.reserve(n) }
func (r *geometric) Stats() Stats      { return r.stats }

// Linear resolves by summing capacities from segment 0 on every call.
type Linear struct {
	Policy growth.Policy
}

// Locate implements Resolver.
func (r Linear) Locate(k int) (int, int) {
	start := 0
	for seg := 0; ; seg++ {
		end := conv.MustAdd(start, r.Policy.CapacityOf(seg))
		if k < end {
			return seg, k - start
		}
		start = end
	}
}

// Start implements Resolver.
func (r Linear) Start(seg int) int { return growth.Cumulative(r.Policy, seg) }

// Reserve implements Resolver.
func (Linear) Reserve(int) {}

// Stats implements Resolver.
func (Linear) Stats() Stats { return Stats{} }
